package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookdam/bookdam/domain/account"
	"github.com/bookdam/bookdam/domain/catalog"
	"github.com/bookdam/bookdam/domain/interaction"
	"github.com/bookdam/bookdam/domain/recommend"
	"github.com/bookdam/bookdam/internal/database"
)

func testDB(t *testing.T) database.Database {
	t.Helper()
	db, err := database.New(context.Background(), "sqlite:///"+t.TempDir()+"/test.db")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedBook(t *testing.T, db database.Database, isbn, title, categoryName string) catalog.Book {
	t.Helper()
	ctx := context.Background()
	category, err := NewCategoryStore(db).GetOrCreate(ctx, categoryName)
	require.NoError(t, err)

	pub := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	book, err := NewBookStore(db).Save(ctx, catalog.NewBook(catalog.BookParams{
		Title:       title,
		Author:      "저자",
		Publisher:   "출판사",
		ISBN13:      isbn,
		Description: "소개글",
		PubDate:     &pub,
		Category:    category,
	}))
	require.NoError(t, err)
	return book
}

func seedUser(t *testing.T, db database.Database, username string) account.User {
	t.Helper()
	user, err := account.NewUser(username, username+"@example.com", "password123")
	require.NoError(t, err)
	saved, err := NewUserStore(db).Save(context.Background(), user)
	require.NoError(t, err)
	return saved
}

func TestBookStore_SaveUpsertsByISBN(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	store := NewBookStore(db)

	first := seedBook(t, db, "9788900000001", "초판 제목", "국내도서 > 역사")

	category, err := NewCategoryStore(db).GetOrCreate(ctx, "국내도서 > 역사")
	require.NoError(t, err)
	updated, err := store.Save(ctx, catalog.NewBook(catalog.BookParams{
		Title:    "개정판 제목",
		ISBN13:   "9788900000001",
		Category: category,
	}))
	require.NoError(t, err)

	assert.Equal(t, first.ID(), updated.ID())
	assert.Equal(t, "개정판 제목", updated.Title())

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestBookStore_ByISBNNotFound(t *testing.T) {
	db := testDB(t)
	_, err := NewBookStore(db).ByISBN(context.Background(), "0000000000000")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestBookStore_Search(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	store := NewBookStore(db)
	seedBook(t, db, "9788900000001", "로마사 1", "국내도서 > 역사")
	seedBook(t, db, "9788900000002", "파이썬 입문", "국내도서 > 컴퓨터")

	books, total, err := store.Search(ctx, catalog.SearchQuery{
		Query: "로마사", Field: catalog.FieldTitle, Limit: 20,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, books, 1)
	assert.Equal(t, "로마사 1", books[0].Title())
	assert.Equal(t, "국내도서 > 역사", books[0].CategoryName())
}

func TestBookStore_SearchByCategory(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	book := seedBook(t, db, "9788900000001", "로마사", "국내도서 > 역사")
	seedBook(t, db, "9788900000002", "파이썬", "국내도서 > 컴퓨터")

	books, total, err := NewBookStore(db).Search(ctx, catalog.SearchQuery{
		CategoryID: book.Category().ID(), Limit: 20,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "로마사", books[0].Title())
}

func TestBookStore_AllPaginatesByID(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	seedBook(t, db, "9788900000001", "하나", "분류")
	seedBook(t, db, "9788900000002", "둘", "분류")
	seedBook(t, db, "9788900000003", "셋", "분류")

	store := NewBookStore(db)
	page, err := store.All(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)

	next, err := store.All(ctx, page[1].ID(), 2)
	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.Equal(t, "셋", next[0].Title())
}

func TestCategoryStore_GetOrCreateIdempotent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	store := NewCategoryStore(db)

	a, err := store.GetOrCreate(ctx, "국내도서 > 소설")
	require.NoError(t, err)
	b, err := store.GetOrCreate(ctx, "국내도서 > 소설")
	require.NoError(t, err)
	assert.Equal(t, a.ID(), b.ID())

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUserStore(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	store := NewUserStore(db)
	user := seedUser(t, db, "reader")

	byName, err := store.ByUsername(ctx, "reader")
	require.NoError(t, err)
	assert.Equal(t, user.ID(), byName.ID())
	assert.NoError(t, byName.CheckPassword("password123"))

	exists, err := store.UsernameExists(ctx, "reader")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.UsernameExists(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserStore_DeleteCascades(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	user := seedUser(t, db, "reader")
	book := seedBook(t, db, "9788900000001", "로마사", "분류")

	_, err := NewCommentStore(db).Save(ctx, interaction.NewComment(user.ID(), book.ID(), "좋아요"))
	require.NoError(t, err)
	require.NoError(t, NewBookmarkStore(db).Add(ctx, interaction.NewBookmark(user.ID(), book.ID())))

	rec := recommend.NewRecommendation(user.ID(), []recommend.Item{recommend.NewItem(book, "이유")})
	_, err = NewRecommendationStore(db).Create(ctx, rec)
	require.NoError(t, err)

	require.NoError(t, NewUserStore(db).Delete(ctx, user.ID()))

	_, err = NewUserStore(db).ByID(ctx, user.ID())
	assert.ErrorIs(t, err, database.ErrNotFound)

	comments, err := NewCommentStore(db).ForBook(ctx, book.ID())
	require.NoError(t, err)
	assert.Empty(t, comments)

	ids, err := NewBookmarkStore(db).BookIDs(ctx, user.ID())
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, total, err := NewRecommendationStore(db).ForUser(ctx, user.ID(), 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)

	// The book itself survives.
	_, err = NewBookStore(db).ByID(ctx, book.ID())
	assert.NoError(t, err)
}

func TestCommentStore(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	store := NewCommentStore(db)
	user := seedUser(t, db, "reader")
	book := seedBook(t, db, "9788900000001", "로마사", "분류")

	saved, err := store.Save(ctx, interaction.NewComment(user.ID(), book.ID(), "재밌어요"))
	require.NoError(t, err)
	assert.NotZero(t, saved.ID())

	edited, err := store.Save(ctx, saved.WithContent("수정했어요"))
	require.NoError(t, err)
	assert.Equal(t, saved.ID(), edited.ID())

	forBook, err := store.ForBook(ctx, book.ID())
	require.NoError(t, err)
	require.Len(t, forBook, 1)
	assert.Equal(t, "수정했어요", forBook[0].Content())

	count, err := store.CountForBook(ctx, book.ID())
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, store.Delete(ctx, saved.ID()))
	_, err = store.ByID(ctx, saved.ID())
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestBookmarkStore_AddIsIdempotent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	store := NewBookmarkStore(db)
	user := seedUser(t, db, "reader")
	book := seedBook(t, db, "9788900000001", "로마사", "분류")

	require.NoError(t, store.Add(ctx, interaction.NewBookmark(user.ID(), book.ID())))
	require.NoError(t, store.Add(ctx, interaction.NewBookmark(user.ID(), book.ID())))

	_, total, err := store.ForUser(ctx, user.ID(), 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	exists, err := store.Exists(ctx, user.ID(), book.ID())
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Remove(ctx, user.ID(), book.ID()))
	exists, err = store.Exists(ctx, user.ID(), book.ID())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestEmbeddingStore_SaveUpserts(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	store := NewEmbeddingStore(db)
	book := seedBook(t, db, "9788900000001", "로마사", "분류")

	require.NoError(t, store.Save(ctx, recommend.NewBookEmbedding(book.ID(), []float64{1, 0}, "m1")))
	require.NoError(t, store.Save(ctx, recommend.NewBookEmbedding(book.ID(), []float64{0, 2}, "m2")))

	stored, ok, err := store.ForBook(ctx, book.ID())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []float64{0, 2}, stored.Vector())
	assert.Equal(t, 2.0, stored.Norm())
	assert.Equal(t, "m2", stored.Model())
}

func TestEmbeddingStore_MissingBookIDs(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	store := NewEmbeddingStore(db)
	withVec := seedBook(t, db, "9788900000001", "있음", "분류")
	without := seedBook(t, db, "9788900000002", "없음", "분류")

	require.NoError(t, store.Save(ctx, recommend.NewBookEmbedding(withVec.ID(), []float64{1}, "m")))

	missing, err := store.MissingBookIDs(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{without.ID()}, missing)
}

func TestRecommendationStore_CreateAndLoad(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	store := NewRecommendationStore(db)
	user := seedUser(t, db, "reader")
	b1 := seedBook(t, db, "9788900000001", "첫 책", "분류")
	b2 := seedBook(t, db, "9788900000002", "둘째 책", "분류")

	rec := recommend.NewRecommendation(user.ID(), []recommend.Item{
		recommend.NewItem(b1, "첫 번째 이유입니다."),
		recommend.NewItem(b2, "두 번째 이유입니다."),
	})

	created, err := store.Create(ctx, rec)
	require.NoError(t, err)
	assert.NotZero(t, created.ID())
	require.Len(t, created.Items(), 2)
	assert.Equal(t, "첫 책", created.Items()[0].Book().Title())
	assert.Equal(t, "분류", created.Items()[0].Book().CategoryName())

	recs, total, err := store.ForUser(ctx, user.ID(), 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, recs, 1)
	assert.Equal(t, created.ID(), recs[0].ID())
}

func TestRecommendationStore_CreatePersistsEmptyRun(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	store := NewRecommendationStore(db)
	user := seedUser(t, db, "reader")

	created, err := store.Create(ctx, recommend.NewRecommendation(user.ID(), nil))
	require.NoError(t, err)
	assert.NotZero(t, created.ID())
	assert.Empty(t, created.Items())

	recs, total, err := store.ForUser(ctx, user.ID(), 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, recs, 1)
	assert.Empty(t, recs[0].Items())
}
