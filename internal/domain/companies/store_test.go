package companies

import (
	"context"
	"testing"
	"time"

	"souq/internal/i18n"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "name", "description", "slug", "video_url", "button_text", "created_at", "updated_at"}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestCreateEncodesLocalizedColumns(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock)
	now := time.Now()

	c := &Company{
		Name:        i18n.Text{i18n.English: "Acme", i18n.Arabic: "أكمي"},
		Description: i18n.Text{i18n.English: "Tools"},
		Slug:        "acme",
		VideoURL:    "https://video.test/acme",
		ButtonText:  i18n.Text{i18n.English: "Shop"},
	}
	name, _ := MarshalText(c.Name)
	desc, _ := MarshalText(c.Description)
	button, _ := MarshalText(c.ButtonText)

	mock.ExpectQuery(`INSERT INTO companies`).
		WithArgs(name, desc, "acme", "https://video.test/acme", button).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow(int64(1), name, desc, "acme", "https://video.test/acme", button, now, now))

	created, err := repo.Create(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "أكمي", created.Name.Get(i18n.Arabic))
	assert.Equal(t, "Tools", created.Description.Get(i18n.Arabic))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBySlugMissing(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock)

	mock.ExpectQuery(`FROM companies WHERE slug = \$1`).
		WithArgs("nope").
		WillReturnRows(pgxmock.NewRows(columns))

	c, err := repo.GetBySlug(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAndDeleteNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock)
	ctx := context.Background()

	mock.ExpectExec(`UPDATE companies`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "", "", pgxmock.AnyArg(), int64(9)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	err := repo.Update(ctx, &Company{ID: 9, Name: i18n.Text{i18n.English: "X"}})
	assert.ErrorIs(t, err, ErrCompanyNotFound)

	mock.ExpectExec(`DELETE FROM companies`).WithArgs(int64(9)).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	assert.ErrorIs(t, repo.Delete(ctx, 9), ErrCompanyNotFound)

	mock.ExpectExec(`DELETE FROM companies`).WithArgs(int64(1)).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	assert.NoError(t, repo.Delete(ctx, 1))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListNewestFirst(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock)
	now := time.Now()

	mock.ExpectQuery(`FROM companies ORDER BY created_at DESC, id DESC`).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow(int64(2), []byte(`{"en":"Bolt"}`), []byte(`{"en":"Nuts"}`), "bolt", "", []byte(`{"en":"Buy"}`), now, now).
			AddRow(int64(1), []byte(`{"en":"Acme","ar":"أكمي"}`), []byte(`{"en":"Tools"}`), "acme", "", []byte(`{"en":"Shop"}`), now.Add(-time.Hour), now))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "bolt", list[0].Slug)
	assert.Equal(t, "أكمي", list[1].Name.Get(i18n.Arabic))
	assert.NoError(t, mock.ExpectationsWereMet())
}
