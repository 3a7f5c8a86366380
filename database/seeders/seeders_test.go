package seeders_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/grocery/app/models"
	"github.com/shashiranjanraj/grocery/database/seeders"
	"github.com/shashiranjanraj/grocery/internal/testdb"
)

func TestCategoriesSeedTwice(t *testing.T) {
	db := testdb.Open(t)
	var out bytes.Buffer

	require.NoError(t, seeders.Run(db, &out, "categories"))
	require.NoError(t, seeders.Run(db, &out, "categories"))

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.EqualValues(t, len(seeders.DefaultCategories), count)
	assert.Contains(t, out.String(), "seeded categories")
}

func TestUnknownSeeder(t *testing.T) {
	err := seeders.Run(testdb.Open(t), &bytes.Buffer{}, "coupons")
	assert.ErrorContains(t, err, `unknown seeder "coupons"`)
}

func TestNamesListsEverySeeder(t *testing.T) {
	assert.ElementsMatch(t, []string{"admin", "categories"}, seeders.Names())
}
