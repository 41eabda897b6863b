// Package migrations embeds the SQL schema migrations for every supported database driver.
package migrations

import (
	"embed"
	"io/fs"

	"github.com/pkg/errors"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// ForDriver returns the migration tree of the given driver ("postgres" or "sqlite").
func ForDriver(driver string) (fs.FS, error) {
	switch driver {
	case "postgres", "sqlite":
		sub, err := fs.Sub(files, driver)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open %s migrations", driver)
		}

		return sub, nil
	default:
		return nil, errors.Errorf("no migrations for driver %s", driver)
	}
}
