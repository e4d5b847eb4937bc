package lang

func init() {
	Register(&LanguageSpec{
		Language:       Python,
		FileExtensions: []string{".py"},
		// async defs parse to function_definition too, so both plain and
		// coroutine functions are covered by the one kind.
		FunctionNodeTypes: []string{"function_definition"},
		ClassNodeTypes:    []string{"class_definition"},
		CallNodeTypes:     []string{"call"},
		ImportNodeTypes:   []string{"import_statement"},
		ImportFromTypes:   []string{"import_from_statement"},
	})
}
