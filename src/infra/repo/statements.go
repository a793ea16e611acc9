package repo

import "strings"

// SQL text is rebuilt on every call. Table and column names come from
// descriptors declared in code and are written without quoting.

func insertSQL(table string, columns []string) string {
	return "INSERT INTO " + table +
		" (" + strings.Join(columns, ", ") + ")" +
		" VALUES (" + placeholders(len(columns)) + ")"
}

func updateSQL(table string, columns []string, key string) string {
	sets := make([]string, len(columns))
	for i, c := range columns {
		sets[i] = c + " = ?"
	}
	return "UPDATE " + table + " SET " + strings.Join(sets, ", ") + " WHERE " + key + " = ?"
}

func deleteSQL(table, key string) string {
	return "DELETE FROM " + table + " WHERE " + key + " = ?"
}

func selectSQL(table, condition string) string {
	if condition == "" {
		return "SELECT * FROM " + table
	}
	return "SELECT * FROM " + table + " WHERE " + condition
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}
