package cmd

import (
	"strings"

	"github.com/spf13/pflag"

	"saucenao/databases"
)

// databaseList collects --db values. Each value is a catalogue code or name,
// and may hold several separated by commas.
type databaseList struct {
	codes []int
}

var _ pflag.Value = (*databaseList)(nil)

func (l *databaseList) String() string {
	return strings.Join(l.Filter().Names(), ",")
}

func (l *databaseList) Set(value string) error {
	for _, token := range strings.Split(value, ",") {
		db, err := databases.Parse(token)
		if err != nil {
			return err
		}
		l.codes = append(l.codes, db.Code)
	}
	return nil
}

func (l *databaseList) Type() string {
	return "database"
}

// Filter returns the selection, empty meaning all databases
func (l *databaseList) Filter() databases.Filter {
	return databases.NewFilter(l.codes...)
}
