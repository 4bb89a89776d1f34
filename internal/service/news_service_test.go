package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wiruacademy/clubsite/internal/repository"
	"github.com/wiruacademy/clubsite/internal/testutil"
	"gorm.io/gorm"
)

func newNewsService(db *gorm.DB) *NewsService {
	return NewNewsService(repository.NewNewsRepository(db))
}

func TestNewsCreate(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Teardown(t)
	svc := newNewsService(td.DB)

	item, err := svc.Create(NewsInput{
		Title: "Summer camp opens",
		Body:  "Registration starts Monday.",
		Image: "camp.jpg",
	})
	require.NoError(t, err)

	assert.Equal(t, "Summer camp opens", item.Title)
	require.NotNil(t, item.Image)
	assert.Equal(t, "camp.jpg", *item.Image)
}

func TestNewsCreateValidation(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Teardown(t)
	svc := newNewsService(td.DB)

	_, err := svc.Create(NewsInput{Title: "", Body: "text"})
	assert.ErrorIs(t, err, ErrTitleMissing)

	_, err = svc.Create(NewsInput{Title: "title", Body: ""})
	assert.ErrorIs(t, err, ErrBodyMissing)

	// A title that sanitizes to nothing is still missing.
	_, err = svc.Create(NewsInput{Title: "<br>", Body: "text"})
	assert.ErrorIs(t, err, ErrTitleMissing)
}

func TestNewsCreateSanitizes(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Teardown(t)
	svc := newNewsService(td.DB)

	item, err := svc.Create(NewsInput{
		Title: "<script>alert(1)</script>Tournament",
		Body:  "<b>Saturday</b> at noon",
	})
	require.NoError(t, err)
	assert.Equal(t, "alert(1)Tournament", item.Title)
	assert.Equal(t, "Saturday at noon", item.Body)
}

func TestNewsCreateTruncatesTitle(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Teardown(t)
	svc := newNewsService(td.DB)

	item, err := svc.Create(NewsInput{
		Title: strings.Repeat("a", 300),
		Body:  "text",
	})
	require.NoError(t, err)
	assert.Len(t, item.Title, 200)

	// Truncation counts runes, never splitting a multi-byte character.
	item, err = svc.Create(NewsInput{
		Title: strings.Repeat("Новости клуба ", 30),
		Body:  "text",
	})
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(item.Title))
	assert.Equal(t, 200, utf8.RuneCountInString(item.Title))
}

func TestNewsListNewestFirst(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Teardown(t)
	svc := newNewsService(td.DB)

	for _, title := range []string{"first", "second", "third"} {
		_, err := svc.Create(NewsInput{Title: title, Body: "text"})
		require.NoError(t, err)
	}

	items, err := svc.List(2)
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestNewsUpdateAndDelete(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Teardown(t)
	svc := newNewsService(td.DB)

	item, err := svc.Create(NewsInput{Title: "draft", Body: "text"})
	require.NoError(t, err)

	updated, err := svc.Update(item.ID, NewsInput{Title: "final", Body: "revised"})
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Title)
	assert.Equal(t, "revised", updated.Body)

	require.NoError(t, svc.Delete(item.ID))

	_, err = svc.Get(item.ID)
	assert.ErrorIs(t, err, ErrNewsNotFound)
	assert.ErrorIs(t, svc.Delete(item.ID), ErrNewsNotFound)
}
