package frameloads

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"frameload-sync/core/database"
	"frameload-sync/feature/frameloads/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const header = "Frame,Load Pattern,Type,Direction,RelDist1,RelDist2,AbsDist1,AbsDist2,Value1,Value2,CSys"

// newDB returns a migrated in-memory model with the given frames.
func newDB(t *testing.T, frames map[string]float64) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	for name, length := range frames {
		require.NoError(t, db.Create(&models.Frame{Name: name, Length: length}).Error)
	}
	return db
}

// writeSheet writes a CSV workbook with the standard header.
func writeSheet(t *testing.T, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "loads.csv")
	content := header + "\n" + strings.Join(rows, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadsOf(t *testing.T, db *gorm.DB) []models.FrameLoad {
	t.Helper()
	var loads []models.FrameLoad
	require.NoError(t, db.Order("frame, pattern, id").Find(&loads).Error)
	return loads
}
