package lojgloss

// TableDiff represents the difference between two dictionary versions.
type TableDiff struct {
	// Added contains glosses that are new (not in the previous version).
	Added []GlossPair

	// Removed contains glosses that were removed (not in the new version).
	Removed []GlossPair

	// Unchanged contains glosses mapped to the same word in both versions.
	Unchanged []GlossPair

	// Changed contains glosses whose word changed.
	Changed []ChangedGloss
}

// ChangedGloss represents a gloss that now maps to a different word.
type ChangedGloss struct {
	Gloss   string `json:"gloss"`
	OldWord string `json:"old_word"`
	NewWord string `json:"new_word"`
}

// Stats returns summary statistics for the diff.
func (d *TableDiff) Stats() DiffStats {
	return DiffStats{
		Added:     len(d.Added),
		Removed:   len(d.Removed),
		Unchanged: len(d.Unchanged),
		Changed:   len(d.Changed),
	}
}

// DiffStats contains summary statistics for a diff.
type DiffStats struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Unchanged int `json:"unchanged"`
	Changed   int `json:"changed"`
}

// HasChanges returns true if there are any differences.
func (d *TableDiff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Changed) > 0
}

// DiffTables compares two gloss tables key by key. Added, Unchanged and
// Changed follow the new table's key order; Removed follows the old table's.
// A nil table is treated as empty.
func DiffTables(oldTable, newTable *GlossTable) *TableDiff {
	result := &TableDiff{}

	oldEntries := tableEntries(oldTable)
	newEntries := tableEntries(newTable)

	oldByGloss := make(map[string]string, len(oldEntries))
	for _, e := range oldEntries {
		oldByGloss[e.Gloss] = e.Word
	}
	newByGloss := make(map[string]string, len(newEntries))
	for _, e := range newEntries {
		newByGloss[e.Gloss] = e.Word
	}

	for _, e := range newEntries {
		oldWord, exists := oldByGloss[e.Gloss]
		switch {
		case !exists:
			result.Added = append(result.Added, e)
		case oldWord == e.Word:
			result.Unchanged = append(result.Unchanged, e)
		default:
			result.Changed = append(result.Changed, ChangedGloss{
				Gloss:   e.Gloss,
				OldWord: oldWord,
				NewWord: e.Word,
			})
		}
	}

	for _, e := range oldEntries {
		if _, exists := newByGloss[e.Gloss]; !exists {
			result.Removed = append(result.Removed, e)
		}
	}

	return result
}

func tableEntries(t *GlossTable) []GlossPair {
	if t == nil {
		return nil
	}
	return t.Entries()
}
