package frameloads

import (
	"context"
	"errors"
	"testing"

	"frameload-sync/core/database"
	"frameload-sync/core/reconcile"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func assignment(name, pattern string, value float64) reconcile.PreparedAssignment {
	return reconcile.PreparedAssignment{
		Row:       2,
		Key:       reconcile.IdentityKey{Name: name, Classifier: pattern},
		Type:      1,
		Direction: 10,
		CSys:      reconcile.FrameGlobal,
		Relative:  reconcile.Pair{Start: 0, End: 1},
		Absolute:  reconcile.Pair{Start: 0, End: 10},
		Value1:    value,
		Value2:    value,
	}
}

func TestStore_OpenRequiresSchema(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	_, err = NewStore(db, nil).Open(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model schema incomplete")
	assert.Contains(t, err.Error(), "frames(name,length)")

	_, err = NewStore(nil, nil).Open(context.Background())
	assert.EqualError(t, err, "no database connection")
}

func TestStore_CheckSchema(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	store := NewStore(db, nil)

	missing, err := store.CheckSchema(context.Background())
	require.NoError(t, err)
	assert.Len(t, missing, 3)

	require.NoError(t, Migrate(db))
	missing, err = store.CheckSchema(context.Background())
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestStore_Session(t *testing.T) {
	ctx := context.Background()
	db := newDB(t, map[string]float64{"B1": 10, "B2": 4})
	store := NewStore(db, nil)

	sess, err := store.Open(ctx)
	require.NoError(t, err)
	defer sess.Close()

	names, err := sess.ExistingNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B1", "B2"}, names)

	length, err := sess.Length(ctx, "b2")
	require.NoError(t, err)
	assert.Equal(t, 4.0, length)

	_, err = sess.Length(ctx, "B9")
	assert.ErrorIs(t, err, ErrFrameNotFound)

	// add mode stacks loads, replace mode collapses them
	require.NoError(t, sess.Apply(ctx, assignment("B1", "DEAD", 1), false))
	require.NoError(t, sess.Apply(ctx, assignment("B1", "DEAD", 2), false))
	assert.Len(t, loadsOf(t, db), 2)

	require.NoError(t, sess.Apply(ctx, assignment("B1", "dead", 3), true))
	loads := loadsOf(t, db)
	require.Len(t, loads, 1)
	assert.Equal(t, 3.0, loads[0].Value1)
	assert.Equal(t, "Global", loads[0].CSys)
	assert.Equal(t, 10.0, loads[0].AbsDist2)

	require.NoError(t, sess.Apply(ctx, assignment("B2", "LIVE", 1), true))
	require.NoError(t, sess.Remove(ctx, reconcile.IdentityKey{Name: "b1", Classifier: "DEAD"}))
	loads = loadsOf(t, db)
	require.Len(t, loads, 1)
	assert.Equal(t, "B2", loads[0].Frame)

	// removing an absent key is not an error
	assert.NoError(t, sess.Remove(ctx, reconcile.IdentityKey{Name: "B7", Classifier: "DEAD"}))
}

func TestStore_RefreshViewBumpsRevision(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newDB(t, nil), nil)

	rev, err := store.Revision(ctx)
	require.NoError(t, err)
	assert.Zero(t, rev)

	sess, err := store.Open(ctx)
	require.NoError(t, err)
	require.NoError(t, sess.RefreshView(ctx))
	require.NoError(t, sess.RefreshView(ctx))

	rev, err = store.Revision(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rev)
}

// mockDB returns a gorm connection backed by sqlmock.
func mockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: conn, SkipInitializeWithVersion: true}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestStore_LoadsQueryFailure(t *testing.T) {
	db, mock := mockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `frame_loads`").WillReturnError(errors.New("connection reset"))

	_, err := NewStore(db, nil).Loads(context.Background())
	assert.EqualError(t, err, "list frame loads: connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_OpenSchemaProbeFailure(t *testing.T) {
	db, mock := mockDB(t)
	mock.ExpectQuery("information_schema.tables").WillReturnError(errors.New("access denied"))

	_, err := NewStore(db, nil).Open(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inspect schema")
	assert.Contains(t, err.Error(), "access denied")
}
