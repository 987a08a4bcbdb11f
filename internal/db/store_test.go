package db

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cocktailbar/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := OpenMemory(t.Name(), logger.Silent)
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(database))
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewStore(database)
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewStore(gormDB), mock
}

func seedCocktail(t *testing.T, store *Store, name string) *models.Cocktail {
	t.Helper()
	cocktail := &models.Cocktail{Name: name, Ingredients: "ice"}
	_, err := store.CreateCocktail(context.Background(), cocktail)
	require.NoError(t, err)
	return cocktail
}

func TestStoreCreateThenFindCocktail(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	cases := []struct{ name, ingredients string }{
		{"Mojito", "rum, mint, lime"},
		{"Negroni", "gin, campari, vermouth"},
		{"Șpriț", "wine, soda water"},
	}
	for _, tc := range cases {
		cocktail := &models.Cocktail{Name: tc.name, Ingredients: tc.ingredients}
		res, err := store.CreateCocktail(ctx, cocktail)
		require.NoError(t, err)
		assert.Equal(t, int64(cocktail.ID), res.InsertedID)
		assert.Equal(t, int64(1), res.RowsAffected)

		found, err := store.FindCocktail(ctx, cocktail.ID)
		require.NoError(t, err)
		assert.Equal(t, tc.name, found.Name)
		assert.Equal(t, tc.ingredients, found.Ingredients)
		assert.False(t, found.CreatedAt.IsZero())
	}
}

func TestStoreFindCocktailNotFound(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	_, err := store.FindCocktail(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.FindOrder(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreListingOrder(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	seedCocktail(t, store, "Negroni")
	seedCocktail(t, store, "Aperol Spritz")
	seedCocktail(t, store, "Mojito")

	menu, err := store.MenuCocktails(ctx)
	require.NoError(t, err)
	require.Len(t, menu, 3)
	assert.Equal(t, []string{"Aperol Spritz", "Mojito", "Negroni"}, []string{menu[0].Name, menu[1].Name, menu[2].Name})

	latest, err := store.LatestCocktails(ctx)
	require.NoError(t, err)
	require.Len(t, latest, 3)
	assert.Equal(t, "Mojito", latest[0].Name)
	assert.Equal(t, "Negroni", latest[2].Name)
}

func TestStoreEmptyMenu(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	menu, err := store.MenuCocktails(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, menu)
	assert.Empty(t, menu)
}

func TestStoreUpdateCocktail(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	cocktail := seedCocktail(t, store, "Daiquiri")
	cocktail.Name = "Hemingway Daiquiri"
	cocktail.ImagePath = "/uploads/new.png"
	cocktail.Tags = "classic"
	res, err := store.UpdateCocktail(ctx, cocktail)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RowsAffected)

	found, err := store.FindCocktail(ctx, cocktail.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hemingway Daiquiri", found.Name)
	assert.Equal(t, "/uploads/new.png", found.ImagePath)
	assert.Equal(t, "classic", found.Tags)

	res, err = store.UpdateCocktail(ctx, &models.Cocktail{ID: 999, Name: "ghost", Ingredients: "air"})
	require.NoError(t, err)
	assert.Zero(t, res.RowsAffected)
}

func TestStoreOrderKeepsCocktailNameSnapshot(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	cocktail := seedCocktail(t, store, "Mojito")
	order := &models.Order{CustomerName: "Ana", CocktailID: cocktail.ID, CocktailName: cocktail.Name}
	_, err := store.CreateOrder(ctx, order)
	require.NoError(t, err)

	cocktail.Name = "Virgin Mojito"
	_, err = store.UpdateCocktail(ctx, cocktail)
	require.NoError(t, err)

	found, err := store.FindOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", found.CustomerName)
	assert.Equal(t, "Mojito", found.CocktailName)
}

func TestStoreOrderRequiresExistingCocktail(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	_, err := store.CreateOrder(context.Background(), &models.Order{CustomerName: "Ana", CocktailID: 999, CocktailName: "ghost"})
	assert.Error(t, err)

	orders, err := store.RecentOrders(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestStoreDeleteCocktailCascadesOrders(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	doomed := seedCocktail(t, store, "Cosmopolitan")
	kept := seedCocktail(t, store, "Margarita")
	for i := 0; i < 3; i++ {
		_, err := store.CreateOrder(ctx, &models.Order{CustomerName: fmt.Sprintf("guest %d", i), CocktailID: doomed.ID, CocktailName: doomed.Name})
		require.NoError(t, err)
	}
	_, err := store.CreateOrder(ctx, &models.Order{CustomerName: "Ion", CocktailID: kept.ID, CocktailName: kept.Name})
	require.NoError(t, err)

	res, err := store.DeleteCocktail(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RowsAffected)

	count, err := store.CountOrders(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = store.CountOrders(ctx, kept.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestStoreForeignKeyCascadesOnRawDelete(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	cocktail := seedCocktail(t, store, "Paloma")
	_, err := store.CreateOrder(ctx, &models.Order{CustomerName: "Eva", CocktailID: cocktail.ID, CocktailName: cocktail.Name})
	require.NoError(t, err)

	_, err = store.Exec(ctx, "DELETE FROM cocktails WHERE id = ?", cocktail.ID)
	require.NoError(t, err)

	count, err := store.CountOrders(ctx, cocktail.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStoreRecentOrdersLimitAndDelete(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	cocktail := seedCocktail(t, store, "Old Fashioned")
	var last uint
	for i := 0; i < 5; i++ {
		order := &models.Order{CustomerName: fmt.Sprintf("guest %d", i), CocktailID: cocktail.ID, CocktailName: cocktail.Name}
		_, err := store.CreateOrder(ctx, order)
		require.NoError(t, err)
		last = order.ID
	}

	orders, err := store.RecentOrders(ctx, 2)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, last, orders[0].ID)
	assert.Greater(t, orders[0].ID, orders[1].ID)

	res, err := store.DeleteOrder(ctx, last)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RowsAffected)

	res, err = store.DeleteOrder(ctx, last)
	require.NoError(t, err)
	assert.Zero(t, res.RowsAffected)
}

func TestStorePropagatesQueryErrors(t *testing.T) {
	t.Parallel()
	store, mock := newMockStore(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery(`SELECT \* FROM cocktails ORDER BY name ASC`).WillReturnError(boom)
	_, err := store.MenuCocktails(context.Background())
	assert.ErrorIs(t, err, boom)

	mock.ExpectExec(`DELETE FROM orders WHERE id = \$1`).WillReturnError(boom)
	_, err = store.DeleteOrder(context.Background(), 7)
	assert.ErrorIs(t, err, boom)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreWithoutDatabase(t *testing.T) {
	t.Parallel()
	var store *Store

	_, err := store.Exec(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, gorm.ErrInvalidDB)
	assert.ErrorIs(t, store.Ping(context.Background()), gorm.ErrInvalidDB)
}

func TestStoreCountImageReferences(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	first := &models.Cocktail{Name: "Sour", Ingredients: "whisky", ImagePath: "/uploads/shared.png"}
	second := &models.Cocktail{Name: "Sour Twist", Ingredients: "whisky", ImagePath: "/uploads/shared.png"}
	for _, c := range []*models.Cocktail{first, second} {
		_, err := store.CreateCocktail(ctx, c)
		require.NoError(t, err)
	}

	count, err := store.CountImageReferences(ctx, "/uploads/shared.png", first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = store.CountImageReferences(ctx, "/uploads/other.png", 0)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStoreExecReportsInsertedID(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	seedCocktail(t, store, "Gimlet")
	res, err := store.Exec(ctx, "INSERT INTO cocktails (name, ingredients, instructions, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		"Bramble", "gin, lemon, blackberry liqueur", "", time.Now().UTC(), time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RowsAffected)
	require.NotZero(t, res.InsertedID)

	found, err := store.FindCocktail(ctx, uint(res.InsertedID))
	require.NoError(t, err)
	assert.Equal(t, "Bramble", found.Name)

	res, err = store.Exec(ctx, "UPDATE cocktails SET garnish = ? WHERE id = ?", "blackberry", found.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RowsAffected)
	assert.Zero(t, res.InsertedID)
}

func TestStoreExecOnPostgresLeavesInsertedIDUnset(t *testing.T) {
	t.Parallel()
	store, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO orders \(customer_name\) VALUES \(\$1\)`).
		WithArgs("Ana").
		WillReturnResult(sqlmock.NewResult(0, 1))
	res, err := store.Exec(context.Background(), "INSERT INTO orders (customer_name) VALUES (?)", "Ana")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RowsAffected)
	assert.Zero(t, res.InsertedID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
