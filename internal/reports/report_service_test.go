package reports

import (
	"testing"
	"time"

	custom_error "github.com/GabeCabrera/crewkit-sub001/pkg/errors"
	"github.com/GabeCabrera/crewkit-sub001/pkg/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) PersistReport(report *models.EndOfDayReport) error {
	args := m.Called(report)
	return args.Error(0)
}

func (m *MockReportRepository) GetReport(id int) (*models.EndOfDayReport, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EndOfDayReport), args.Error(1)
}

func (m *MockReportRepository) GetReports(filter ListFilter, page, limit int) ([]models.EndOfDayReport, int, error) {
	args := m.Called(filter, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.EndOfDayReport), args.Int(1), args.Error(2)
}

func (m *MockReportRepository) GetTeamUsageLogs(teamID int, date time.Time) ([]models.AssemblyUsageLog, error) {
	args := m.Called(teamID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AssemblyUsageLog), args.Error(1)
}

type MockAssemblySource struct {
	mock.Mock
}

func (m *MockAssemblySource) GetAssembly(id int) (*models.Assembly, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Assembly), args.Error(1)
}

type MockPriceSource struct {
	mock.Mock
}

func (m *MockPriceSource) GetUnitPrices(ids []int) (map[int]decimal.Decimal, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]decimal.Decimal), args.Error(1)
}

func TestCreateReportComputesTotals(t *testing.T) {
	mockRepo := new(MockReportRepository)
	mockAssemblies := new(MockAssemblySource)
	mockPrices := new(MockPriceSource)
	service := NewReportService(mockRepo, mockAssemblies, mockPrices)

	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.Local)

	// Two usages of assembly 12 (2x bolt each), one with an extra zip tie.
	mockRepo.On("GetTeamUsageLogs", 3, date).Return([]models.AssemblyUsageLog{
		{ID: 1, AssemblyID: 12, UserID: 7, Quantity: 2},
		{ID: 2, AssemblyID: 12, UserID: 8, Quantity: 1, Modifiers: []models.UsageModifier{{EquipmentID: 9, Quantity: 5}}},
	}, nil)
	mockAssemblies.On("GetAssembly", 12).Return(&models.Assembly{
		ID:   12,
		Name: "Pole Kit",
		Items: []models.AssemblyItem{
			{EquipmentID: 5, Quantity: 2},
		},
	}, nil).Once()
	mockPrices.On("GetUnitPrices", mock.Anything).Return(map[int]decimal.Decimal{
		5: decimal.RequireFromString("1.25"),
		9: decimal.RequireFromString("0.10"),
	}, nil)
	mockRepo.On("PersistReport", mock.MatchedBy(func(report *models.EndOfDayReport) bool {
		// 2*2 bolts + 1*2 bolts = 6 bolts at 1.25, plus 5 zip ties at 0.10
		return report.UsageCount == 2 &&
			report.TotalCost.Equal(decimal.RequireFromString("8.00")) &&
			report.TeamID == 3 &&
			report.CreatedByID == 1
	})).Return(nil)

	report, err := service.CreateReport(CreateReportRequest{
		Date:           "2025-06-10",
		TeamID:         3,
		WorkersPresent: []int{7, 8},
		Notes:          "wrapped up the north run",
	}, 1)

	assert.NoError(t, err)
	assert.Equal(t, 2, report.UsageCount)
	assert.True(t, report.TotalCost.Equal(decimal.RequireFromString("8.00")))
	mockRepo.AssertExpectations(t)
	mockAssemblies.AssertExpectations(t)
}

func TestCreateReportEmptyDay(t *testing.T) {
	mockRepo := new(MockReportRepository)
	mockAssemblies := new(MockAssemblySource)
	mockPrices := new(MockPriceSource)
	service := NewReportService(mockRepo, mockAssemblies, mockPrices)

	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.Local)
	mockRepo.On("GetTeamUsageLogs", 3, date).Return([]models.AssemblyUsageLog{}, nil)
	mockPrices.On("GetUnitPrices", mock.Anything).Return(map[int]decimal.Decimal{}, nil)
	mockRepo.On("PersistReport", mock.MatchedBy(func(report *models.EndOfDayReport) bool {
		return report.UsageCount == 0 && report.TotalCost.IsZero()
	})).Return(nil)

	report, err := service.CreateReport(CreateReportRequest{Date: "2025-06-10", TeamID: 3}, 1)

	assert.NoError(t, err)
	assert.Equal(t, 0, report.UsageCount)
	mockAssemblies.AssertNotCalled(t, "GetAssembly", mock.Anything)
}

func TestCreateReportInvalidDate(t *testing.T) {
	service := NewReportService(new(MockReportRepository), new(MockAssemblySource), new(MockPriceSource))

	_, err := service.CreateReport(CreateReportRequest{Date: "10/06/2025", TeamID: 3}, 1)

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestCreateReportDuplicateDay(t *testing.T) {
	mockRepo := new(MockReportRepository)
	mockAssemblies := new(MockAssemblySource)
	mockPrices := new(MockPriceSource)
	service := NewReportService(mockRepo, mockAssemblies, mockPrices)

	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.Local)
	mockRepo.On("GetTeamUsageLogs", 3, date).Return([]models.AssemblyUsageLog{}, nil)
	mockPrices.On("GetUnitPrices", mock.Anything).Return(map[int]decimal.Decimal{}, nil)
	mockRepo.On("PersistReport", mock.Anything).
		Return(custom_error.WrapDBError("A report for this team and date already exists", "23505"))

	_, err := service.CreateReport(CreateReportRequest{Date: "2025-06-10", TeamID: 3}, 1)

	assert.Error(t, err)
	_, isUnique := err.(*custom_error.UniqueViolationError)
	assert.True(t, isUnique)
}
