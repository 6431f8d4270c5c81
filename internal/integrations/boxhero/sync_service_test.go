package boxhero

import (
	"errors"
	"testing"
	"time"

	"github.com/GabeCabrera/crewkit-sub001/internal/inventory/equipment"
	"github.com/GabeCabrera/crewkit-sub001/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) GetAllItems() ([]Item, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Item), args.Error(1)
}

type MockEquipmentStore struct {
	mock.Mock
}

func (m *MockEquipmentStore) UpsertFromCatalog(tx *goqu.TxDatabase, line equipment.CatalogLine) (int, bool, error) {
	args := m.Called(tx, line)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockEquipmentStore) ArchiveMissing(tx *goqu.TxDatabase, seenBoxHeroIDs []string) ([]int, error) {
	args := m.Called(tx, seenBoxHeroIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

type MockStockStore struct {
	mock.Mock
}

func (m *MockStockStore) GetQuantity(tx *goqu.TxDatabase, equipmentID int) (int, error) {
	args := m.Called(tx, equipmentID)
	return args.Int(0), args.Error(1)
}

func (m *MockStockStore) SetQuantity(tx *goqu.TxDatabase, equipmentID int, quantity int) error {
	args := m.Called(tx, equipmentID, quantity)
	return args.Error(0)
}

type MockLogStore struct {
	mock.Mock
}

func (m *MockLogStore) Append(tx *goqu.TxDatabase, entry models.EquipmentLog) error {
	args := m.Called(tx, entry)
	return args.Error(0)
}

type syncFixture struct {
	catalog   *MockCatalog
	equipment *MockEquipmentStore
	stock     *MockStockStore
	logs      *MockLogStore
	service   *SyncService
}

func newSyncFixture() *syncFixture {
	f := &syncFixture{
		catalog:   new(MockCatalog),
		equipment: new(MockEquipmentStore),
		stock:     new(MockStockStore),
		logs:      new(MockLogStore),
	}

	f.service = &SyncService{
		catalog:   f.catalog,
		equipment: f.equipment,
		stock:     f.stock,
		logs:      f.logs,
		runInTx: func(fn func(tx *goqu.TxDatabase) error) error {
			return fn(nil)
		},
		logger: zap.NewNop(),
		now:    func() time.Time { return time.Date(2025, 6, 10, 3, 0, 0, 0, time.Local) },
	}

	return f
}

func TestSyncUpsertsAndAdjustsStock(t *testing.T) {
	f := newSyncFixture()
	userID := 1

	f.catalog.On("GetAllItems").Return([]Item{
		{ID: "bh-1", Name: "Machine Bolt 1/4", SKU: "BOLT-14-MACHINE", Price: decimal.RequireFromString("1.25"), Unit: "ea", Quantity: 120},
		{ID: "bh-2", Name: "Zip Tie 400mm", SKU: "ZIP-TIE-400", Price: decimal.RequireFromString("0.10"), Unit: "ea", Quantity: 500},
		{ID: "bh-3", Name: "Ground Rod 8ft", SKU: "GND-ROD-8", Price: decimal.RequireFromString("14.00"), Unit: "ea", Quantity: 30},
	}, nil)

	f.equipment.On("UpsertFromCatalog", mock.Anything, mock.MatchedBy(func(line equipment.CatalogLine) bool {
		return line.SKU == "BOLT-14-MACHINE"
	})).Return(5, false, nil)
	f.equipment.On("UpsertFromCatalog", mock.Anything, mock.MatchedBy(func(line equipment.CatalogLine) bool {
		return line.SKU == "ZIP-TIE-400"
	})).Return(9, false, nil)
	f.equipment.On("UpsertFromCatalog", mock.Anything, mock.MatchedBy(func(line equipment.CatalogLine) bool {
		return line.SKU == "GND-ROD-8"
	})).Return(14, true, nil)

	// Bolt stock drifted, zip ties already match, ground rods are new.
	f.stock.On("GetQuantity", mock.Anything, 5).Return(100, nil)
	f.stock.On("GetQuantity", mock.Anything, 9).Return(500, nil)
	f.stock.On("SetQuantity", mock.Anything, 5, 120).Return(nil)
	f.stock.On("SetQuantity", mock.Anything, 14, 30).Return(nil)
	f.logs.On("Append", mock.Anything, mock.MatchedBy(func(entry models.EquipmentLog) bool {
		return entry.EquipmentID == 5 && entry.Quantity == 20 && entry.Type == models.LogTypeAdjusted && entry.UserID == &userID
	})).Return(nil)
	f.logs.On("Append", mock.Anything, mock.MatchedBy(func(entry models.EquipmentLog) bool {
		return entry.EquipmentID == 14 && entry.Quantity == 30 && entry.Type == models.LogTypeAdjusted
	})).Return(nil)

	f.equipment.On("ArchiveMissing", mock.Anything, []string{"bh-1", "bh-2", "bh-3"}).Return([]int{77}, nil)

	result, err := f.service.Sync(&userID)

	assert.NoError(t, err)
	assert.Equal(t, 3, result.ItemsSeen)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, 2, result.Adjusted)
	assert.Equal(t, []int{77}, result.ArchivedIDs)
	f.stock.AssertNotCalled(t, "SetQuantity", mock.Anything, 9, mock.Anything)
	f.stock.AssertNotCalled(t, "GetQuantity", mock.Anything, 14)
	f.equipment.AssertExpectations(t)
	f.logs.AssertExpectations(t)
}

func TestSyncSkipsItemsWithoutSKU(t *testing.T) {
	f := newSyncFixture()

	f.catalog.On("GetAllItems").Return([]Item{
		{ID: "bh-3", Name: "Unlabeled Part", SKU: "", Quantity: 10},
	}, nil)
	f.equipment.On("ArchiveMissing", mock.Anything, []string{}).Return([]int{}, nil)

	result, err := f.service.Sync(nil)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.ItemsSeen)
	assert.Equal(t, 0, result.Created)
	f.equipment.AssertNotCalled(t, "UpsertFromCatalog", mock.Anything, mock.Anything)
}

func TestSyncCatalogFetchError(t *testing.T) {
	f := newSyncFixture()

	f.catalog.On("GetAllItems").Return(nil, errors.New("boxhero returned 503 Service Unavailable"))

	_, err := f.service.Sync(nil)

	assert.Error(t, err)
	f.equipment.AssertNotCalled(t, "UpsertFromCatalog", mock.Anything, mock.Anything)
}

func TestSyncRollsBackOnStoreError(t *testing.T) {
	f := newSyncFixture()

	f.catalog.On("GetAllItems").Return([]Item{
		{ID: "bh-1", Name: "Machine Bolt 1/4", SKU: "BOLT-14-MACHINE", Price: decimal.RequireFromString("1.25"), Unit: "ea", Quantity: 120},
	}, nil)
	f.equipment.On("UpsertFromCatalog", mock.Anything, mock.Anything).Return(0, false, errors.New("db error"))

	_, err := f.service.Sync(nil)

	assert.Error(t, err)
	f.equipment.AssertNotCalled(t, "ArchiveMissing", mock.Anything, mock.Anything)
}
