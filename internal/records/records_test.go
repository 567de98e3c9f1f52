package records

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/marketdesk/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketdesk/pkg/errors"
)

var testIDs = AppIDs{
	Categories: "app-categories",
	Sellers:    "app-sellers",
	Products:   "app-products",
	Orders:     "app-orders",
}

func newTestCatalog(t *testing.T, store *fakeStore) *Catalog {
	t.Helper()
	catalog, err := NewCatalog(store, "https://store.test/rest", testIDs)
	require.NoError(t, err)
	return catalog
}

func TestNewCollectionRequiresAppID(t *testing.T) {
	_, err := NewCollection[Category](newFakeStore(), enums.EntityCategories, " ")
	require.Error(t, err)

	_, err = NewCatalog(newFakeStore(), "https://store.test/rest", AppIDs{Categories: "x"})
	require.Error(t, err)
}

func TestCollectionListDecodesTypedFields(t *testing.T) {
	store := newFakeStore()
	store.seed(testIDs.Products, "aaaaaaaaaaaaaaaaaaaaaaaa", `{"name":"Lamp","price":19.5,"available":true}`)
	store.seed(testIDs.Products, "bbbbbbbbbbbbbbbbbbbbbbbb", `{}`)
	catalog := newTestCatalog(t, store)

	list, err := catalog.Products.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	first := list[0]
	assert.Equal(t, "aaaaaaaaaaaaaaaaaaaaaaaa", first.ID)
	require.NotNil(t, first.Fields.Price)
	assert.Equal(t, 19.5, *first.Fields.Price)
	assert.Equal(t, "19.5", first.Fields.Value("price"))
	assert.Equal(t, "true", first.Fields.Value("available"))
	assert.Nil(t, list[1].Fields.Name)
	assert.Equal(t, "", list[1].Fields.Value("name"))
}

func TestCollectionListRejectsMistypedFields(t *testing.T) {
	store := newFakeStore()
	store.seed(testIDs.Products, "aaaaaaaaaaaaaaaaaaaaaaaa", `{"price":"expensive"}`)
	catalog := newTestCatalog(t, store)

	_, err := catalog.Products.List(context.Background())
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
}

func TestCreateDropsUnknownKeysAndValidatesTypes(t *testing.T) {
	store := newFakeStore()
	catalog := newTestCatalog(t, store)

	rec, err := catalog.Products.Create(context.Background(), map[string]any{
		"name":      "Lamp",
		"price":     12.0,
		"available": nil,
		"bogus":     "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, "Lamp", *rec.Fields.Name)
	require.Len(t, store.writes, 1)
	assert.NotContains(t, store.writes[0], "bogus")
	assert.Contains(t, store.writes[0], "available")

	_, err = catalog.Products.Create(context.Background(), map[string]any{"price": "twelve"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, map[string]string{"price": "expected number"}, typed.Details())
}

func TestSanitizePatchKinds(t *testing.T) {
	_, err := SanitizePatch(enums.EntityOrders, map[string]any{"status": "lost"})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = SanitizePatch(enums.EntityOrders, map[string]any{"order_date": "14.10.2026"})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = SanitizePatch(enums.EntityOrders, map[string]any{"product_ref": "Lamp"})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	clean, err := SanitizePatch(enums.EntityOrders, map[string]any{
		"status":       "shipped",
		"order_date":   "2026-10-14",
		"total_amount": 42,
		"product_ref":  "https://store.test/rest/apps/app-products/records/aaaaaaaaaaaaaaaaaaaaaaaa",
	})
	require.NoError(t, err)
	assert.Equal(t, 42.0, clean["total_amount"])
	assert.Equal(t, "shipped", clean["status"])

	_, err = SanitizePatch(enums.Entity("widgets"), map[string]any{})
	assert.Error(t, err)
}

func TestUpdateAndDeleteUseAppID(t *testing.T) {
	store := newFakeStore()
	store.seed(testIDs.Orders, "cccccccccccccccccccccccc", `{"status":"new"}`)
	catalog := newTestCatalog(t, store)

	rec, err := catalog.Orders.Update(context.Background(), "cccccccccccccccccccccccc", map[string]any{"status": "processing"})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusProcessing, rec.Fields.StatusOrDefault())

	require.NoError(t, catalog.Orders.Delete(context.Background(), "cccccccccccccccccccccccc"))
	_, err = catalog.Orders.Get(context.Background(), "cccccccccccccccccccccccc")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestOrderStatusOrDefault(t *testing.T) {
	assert.Equal(t, enums.OrderStatusNew, Order{}.StatusOrDefault())
	unknown := "lost"
	assert.Equal(t, enums.OrderStatusNew, Order{Status: &unknown}.StatusOrDefault())
}

func TestCatalogRecordURLAndHandle(t *testing.T) {
	catalog := newTestCatalog(t, newFakeStore())
	assert.Equal(t,
		"https://store.test/rest/apps/app-sellers/records/dddddddddddddddddddddddd",
		catalog.RecordURL(enums.EntitySellers, "dddddddddddddddddddddddd"))

	handle, err := catalog.Handle(enums.EntityOrders)
	require.NoError(t, err)
	assert.Equal(t, "app-orders", handle.AppID())

	_, err = catalog.Handle(enums.Entity("widgets"))
	assert.Error(t, err)
}

func TestCatalogLoadConcurrent(t *testing.T) {
	store := newFakeStore()
	store.seed(testIDs.Categories, "c1", `{"name":"Books"}`)
	store.seed(testIDs.Sellers, "s1", `{"company_name":"Acme"}`)
	store.seed(testIDs.Products, "p1", `{"name":"Lamp"}`)
	store.seed(testIDs.Orders, "o1", `{"status":"new"}`)
	catalog := newTestCatalog(t, store)

	snap, err := catalog.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Categories, 1)
	assert.Len(t, snap.Sellers, 1)
	assert.Len(t, snap.Products, 1)
	assert.Len(t, snap.Orders, 1)

	partial, err := catalog.Load(context.Background(), enums.EntityProducts, enums.EntityProducts)
	require.NoError(t, err)
	assert.Len(t, partial.Products, 1)
	assert.Nil(t, partial.Orders)
}

func TestCatalogLoadFailsOnAnyError(t *testing.T) {
	store := newFakeStore()
	store.listErr[testIDs.Sellers] = pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("down"), "list sellers")
	catalog := newTestCatalog(t, store)

	_, err := catalog.Load(context.Background())
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
}

func TestIndex(t *testing.T) {
	a := "a"
	idx := Index([]Record[Category]{{ID: "1", Fields: Category{Name: &a}}, {ID: "2"}})
	assert.Len(t, idx, 2)
	assert.Equal(t, "a", idx["1"].Fields.Value("name"))
}

func TestCheckField(t *testing.T) {
	got, ok := CheckField(enums.EntityOrders, "order_date", "2026-10-14")
	require.True(t, ok)
	assert.Equal(t, "2026-10-14", got)

	_, ok = CheckField(enums.EntityOrders, "order_date", "14.10.2026")
	assert.False(t, ok)

	_, ok = CheckField(enums.EntityOrders, "status", "lost")
	assert.False(t, ok)

	_, ok = CheckField(enums.EntityCategories, "price", 3.0)
	assert.False(t, ok)
}
