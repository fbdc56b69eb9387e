package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPostgresStore(t *testing.T) {
	Convey("Given a postgres store over a mock pool", t, func() {
		mock, err := pgxmock.NewPool()
		So(err, ShouldBeNil)
		Reset(mock.Close)

		store := NewPostgresStoreWithPool(mock)
		ctx := context.Background()
		snap := sampleSnapshot()

		Convey("When migrating", func() {
			mock.ExpectExec(`CREATE TABLE IF NOT EXISTS chart_snapshots`).
				WillReturnResult(pgxmock.NewResult("CREATE", 0))

			So(store.Migrate(ctx), ShouldBeNil)
			So(mock.ExpectationsWereMet(), ShouldBeNil)
		})

		Convey("When saving a new snapshot", func() {
			mock.ExpectExec(`INSERT INTO chart_snapshots`).
				WithArgs(snap.ID, snap.CreatedAt, pgxmock.AnyArg()).
				WillReturnResult(pgxmock.NewResult("INSERT", 1))

			So(store.Save(ctx, snap), ShouldBeNil)
			So(mock.ExpectationsWereMet(), ShouldBeNil)
		})

		Convey("When the ID already exists", func() {
			mock.ExpectExec(`INSERT INTO chart_snapshots`).
				WithArgs(snap.ID, snap.CreatedAt, pgxmock.AnyArg()).
				WillReturnResult(pgxmock.NewResult("INSERT", 0))

			err := store.Save(ctx, snap)
			So(errors.Is(err, ErrAlreadyExists), ShouldBeTrue)
			So(mock.ExpectationsWereMet(), ShouldBeNil)
		})

		Convey("When the insert fails", func() {
			mock.ExpectExec(`INSERT INTO chart_snapshots`).
				WillReturnError(errors.New("connection reset"))

			err := store.Save(ctx, snap)
			So(errors.Is(err, ErrBackend), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "connection reset")
		})

		Convey("When reading a stored snapshot", func() {
			raw, err := json.Marshal(snap)
			So(err, ShouldBeNil)
			mock.ExpectQuery(`SELECT payload FROM chart_snapshots WHERE id = \$1`).
				WithArgs(snap.ID).
				WillReturnRows(pgxmock.NewRows([]string{"payload"}).AddRow(raw))

			got, err := store.Get(ctx, snap.ID)
			So(err, ShouldBeNil)
			So(got.ID, ShouldEqual, snap.ID)
			So(got.Chart.Placements, ShouldResemble, snap.Chart.Placements)
			So(mock.ExpectationsWereMet(), ShouldBeNil)
		})

		Convey("When the row is missing", func() {
			mock.ExpectQuery(`SELECT payload FROM chart_snapshots`).
				WithArgs(snap.ID).
				WillReturnError(pgx.ErrNoRows)

			_, err := store.Get(ctx, snap.ID)
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})

		Convey("When counting", func() {
			mock.ExpectQuery(`SELECT count\(\*\) FROM chart_snapshots`).
				WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))

			n, err := store.Count(ctx)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 3)
		})

		Convey("When the ID is malformed", func() {
			_, err := store.Get(ctx, "1; DROP TABLE chart_snapshots")
			So(errors.Is(err, ErrInvalidID), ShouldBeTrue)
			So(mock.ExpectationsWereMet(), ShouldBeNil)
		})
	})
}
