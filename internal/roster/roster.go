// Package roster keeps the fixed list of tracked students in sync with the
// seed the process starts with.
package roster

// Student is one roster entry. ID is the stable key; Name is display only.
type Student struct {
	ID   string `json:"student_id" yaml:"id" db:"student_id"`
	Name string `json:"name" yaml:"name" db:"name"`
}

// DefaultSeed is used when no seed file is configured.
var DefaultSeed = []Student{
	{ID: "sofia_sarachaga", Name: "Sofia Sarachaga"},
	{ID: "lailen_flores", Name: "Lailen Flores"},
	{ID: "gabriel_rios", Name: "Gabriel Rios"},
	{ID: "tahirah_husagh", Name: "Tahirah Husagh"},
	{ID: "josue_soler", Name: "Josue Soler"},
	{ID: "nehuen_cerdan", Name: "Nehuen Cerdan"},
}
