package model

// GroupCount is one row of a GROUP BY count.
type GroupCount struct {
	Key   string `db:"key"`
	Total int    `db:"total"`
}
