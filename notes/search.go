package notes

// Search runs a full text query over note content.
func (a *API) Search(query string) ([]Metadata, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	rows, err := a.db.Search(query)
	if err != nil {
		return nil, err
	}
	return toMetadataSlice(rows), nil
}

// FuzzySearch matches query against note paths, ranking prefix matches
// ahead of substring matches, then by mode's ranking column, then path. A
// limit <= 0 means unbounded.
func (a *API) FuzzySearch(query string, limit int, mode RankingMode) ([]Metadata, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	rows, err := a.db.FuzzySearch(query, limit, mode)
	if err != nil {
		return nil, err
	}
	return toMetadataSlice(rows), nil
}
