package product

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productColumns = []string{
	"id", "name", "price", "stock", "brand",
	"flavors", "nicotine", "specifications", "image_url",
}

func TestRepository_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		rows := sqlmock.NewRows(productColumns).
			AddRow("p1", "Ignite V80", 89.9, 12, "Ignite",
				"{Mint,\"Grape Ice\"}", "{5%}", []byte(`{"color":"Azul"}`), "https://cdn/p1.png").
			AddRow("p2", "Pod Genérico", 35.0, 0, "",
				nil, nil, nil, nil)

		mock.ExpectQuery(`(?s)SELECT id, name, price, stock, .* FROM products\s+WHERE status = 'active'\s+ORDER BY created_at, id`).
			WillReturnRows(rows)

		products, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, products, 2)

		assert.Equal(t, "p1", products[0].ID)
		assert.Equal(t, []string{"Mint", "Grape Ice"}, products[0].Flavors)
		assert.Equal(t, []string{"5%"}, products[0].Nicotine)
		assert.Equal(t, "Azul", products[0].Color())
		require.NotNil(t, products[0].ImageURL)
		assert.Equal(t, "https://cdn/p1.png", *products[0].ImageURL)

		assert.Equal(t, "", products[1].Brand)
		assert.Empty(t, products[1].Flavors)
		assert.Nil(t, products[1].Specifications)
		assert.Nil(t, products[1].ImageURL)
		assert.False(t, products[1].InStock())

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectQuery(`(?s)SELECT .* FROM products`).
			WillReturnRows(sqlmock.NewRows(productColumns))

		products, err := repo.GetAll(ctx)
		assert.NoError(t, err)
		assert.NotNil(t, products)
		assert.Len(t, products, 0)
	})

	t.Run("InvalidSpecificationsJSON", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectQuery(`(?s)SELECT .* FROM products`).
			WillReturnRows(sqlmock.NewRows(productColumns).
				AddRow("p1", "Pod", 10.0, 1, "X", nil, nil, []byte(`not-json`), nil))

		products, err := repo.GetAll(ctx)
		assert.NoError(t, err)
		require.Len(t, products, 1)
		assert.Nil(t, products[0].Specifications)
	})

	t.Run("QueryError", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectQuery(`(?s)SELECT .*`).WillReturnError(errors.New("db error"))

		_, err = repo.GetAll(ctx)
		assert.ErrorIs(t, err, ErrFailedGetProducts)
	})

	t.Run("ScanError", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectQuery(`(?s)SELECT .*`).
			WillReturnRows(sqlmock.NewRows(productColumns).
				AddRow("p1", "Pod", "not-a-price", 1, "X", nil, nil, nil, nil))

		_, err = repo.GetAll(ctx)
		assert.ErrorIs(t, err, ErrFailedScanProduct)
	})
}

func TestDecodeSpecifications(t *testing.T) {
	t.Run("MixedTypes", func(t *testing.T) {
		specs, err := decodeSpecifications([]byte(`{"color":"Verde","puffs":5000,"ml":2.5,"recarregavel":true,"dims":{"h":10},"extra":null}`))
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"color":        "Verde",
			"puffs":        "5000",
			"ml":           "2.5",
			"recarregavel": "true",
		}, specs)
	})

	t.Run("Null", func(t *testing.T) {
		specs, err := decodeSpecifications([]byte(`null`))
		require.NoError(t, err)
		assert.Nil(t, specs)
	})

	t.Run("NotAnObject", func(t *testing.T) {
		_, err := decodeSpecifications([]byte(`["Verde"]`))
		assert.Error(t, err)
	})
}

func TestRepository_GetAll_MixedSpecifications(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectQuery(`(?s)SELECT .* FROM products`).
		WillReturnRows(sqlmock.NewRows(productColumns).
			AddRow("p1", "Ignite V80", 89.9, 3, "Ignite", "{Mint}", "{5%}",
				[]byte(`{"color":"Verde","puffs":5000}`), nil).
			AddRow("p2", "Pod", 10.0, 1, "X", nil, nil, []byte(`{broken`), nil))

	products, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "Verde", products[0].Color())
	assert.Equal(t, "5000", products[0].Specifications["puffs"])
	assert.Nil(t, products[1].Specifications)
	assert.NoError(t, mock.ExpectationsWereMet())
}
