package courierrepo_test

import (
	"context"
	"testing"

	"courierdispatch/internal/adapters/out/postgres/courierrepo"
	"courierdispatch/internal/adapters/out/postgres/pgtest"
	"courierdispatch/internal/core/domain/model/courier"
	"courierdispatch/internal/core/domain/model/kernel"
	"courierdispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAggregateTracker is a mock implementation of the aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(aggregate kernel.EventSource) {
	m.Called(aggregate)
}

// CourierRepositoryIntegrationTestSuite checks courier persistence against PostgreSQL.
type CourierRepositoryIntegrationTestSuite struct {
	suite.Suite
	database   *pgtest.Database
	repository *courierrepo.GormCourierRepository
	tracker    *MockAggregateTracker
}

func (suite *CourierRepositoryIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.database = database
	suite.Require().NoError(err)
}

func (suite *CourierRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything).Maybe()
	suite.repository = courierrepo.NewGormCourierRepository(suite.database.DB, suite.tracker)
}

func (suite *CourierRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

func (suite *CourierRepositoryIntegrationTestSuite) TestAdd_ValidCourier_RoundTrips() {
	ctx := context.Background()
	c := suite.createCourier(1, courier.Bike, []int64{22, 1, 12}, "09:00-11:00", "14:00-18:30")

	suite.Require().NoError(suite.repository.Add(ctx, c))

	got, err := suite.repository.Get(ctx, 1)
	suite.Require().NoError(err)
	suite.Equal(courier.Bike, got.Type())
	suite.Equal([]int64{22, 1, 12}, got.Regions())
	suite.Equal([]string{"09:00-11:00", "14:00-18:30"}, kernel.FormatTimeIntervals(got.WorkingHours()))
	suite.Zero(got.CurrentWeight())

	suite.tracker.AssertCalled(suite.T(), "TrackAggregate", c)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestAdd_DuplicateID_ReturnsAlreadyExists() {
	ctx := context.Background()
	suite.Require().NoError(suite.repository.Add(ctx, suite.createCourier(1, courier.Foot, []int64{1}, "09:00-11:00")))

	err := suite.repository.Add(ctx, suite.createCourier(1, courier.Car, []int64{2}, "09:00-11:00"))

	suite.Require().ErrorIs(err, errs.ErrObjectAlreadyExists)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestAdd_UnconstructedCourier_Fails() {
	err := suite.repository.Add(context.Background(), &courier.Courier{})

	suite.Require().ErrorIs(err, courier.ErrCourierIsNotConstructed)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestGet_UnknownID_ReturnsNotFound() {
	_, err := suite.repository.Get(context.Background(), 404)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestGetForUpdate_ExistingCourier_ReturnsIt() {
	ctx := context.Background()
	suite.Require().NoError(suite.repository.Add(ctx, suite.createCourier(3, courier.Car, []int64{5}, "10:00-12:00")))

	got, err := suite.repository.GetForUpdate(ctx, 3)

	suite.Require().NoError(err)
	suite.Equal(int64(3), got.ID())
}

func (suite *CourierRepositoryIntegrationTestSuite) TestExistingIDs_ReturnsStoredSubsetAscending() {
	ctx := context.Background()
	for _, id := range []int64{5, 2, 9} {
		suite.Require().NoError(suite.repository.Add(ctx, suite.createCourier(id, courier.Foot, []int64{1}, "09:00-11:00")))
	}

	existing, err := suite.repository.ExistingIDs(ctx, []int64{9, 1, 2, 7})
	suite.Require().NoError(err)
	suite.Equal([]int64{2, 9}, existing)

	existing, err = suite.repository.ExistingIDs(ctx, nil)
	suite.Require().NoError(err)
	suite.Empty(existing)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestPartialUpdates_OverwriteOnlyTheirColumn() {
	ctx := context.Background()
	c := suite.createCourier(1, courier.Car, []int64{1, 2}, "09:00-11:00")
	suite.Require().NoError(suite.repository.Add(ctx, c))

	foot := courier.Foot
	_, err := c.ApplyPatch(courier.Patch{
		Type:         &foot,
		Regions:      []int64{3},
		WorkingHours: []kernel.TimeInterval{kernel.MustParseTimeInterval("12:00-13:00")},
	})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.ChangeType(ctx, c))
	got := suite.mustGet(1)
	suite.Equal(courier.Foot, got.Type())
	suite.Equal([]int64{1, 2}, got.Regions())

	suite.Require().NoError(suite.repository.ReplaceRegions(ctx, c))
	suite.Equal([]int64{3}, suite.mustGet(1).Regions())

	suite.Require().NoError(suite.repository.ReplaceWorkingHours(ctx, c))
	suite.Equal([]string{"12:00-13:00"}, kernel.FormatTimeIntervals(suite.mustGet(1).WorkingHours()))
}

func (suite *CourierRepositoryIntegrationTestSuite) TestSetWeight_StoresCurrentWeight() {
	ctx := context.Background()
	suite.Require().NoError(suite.repository.Add(ctx, suite.createCourier(1, courier.Bike, []int64{1}, "09:00-11:00")))

	restored, err := courier.RestoreCourier(1, courier.Bike, []int64{1},
		[]kernel.TimeInterval{kernel.MustParseTimeInterval("09:00-11:00")}, 7.35)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.SetWeight(ctx, restored))

	suite.InDelta(7.35, suite.mustGet(1).CurrentWeight(), 1e-9)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestSetWeight_UnknownCourier_ReturnsNotFound() {
	c := suite.createCourier(77, courier.Foot, []int64{1}, "09:00-11:00")

	err := suite.repository.SetWeight(context.Background(), c)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *CourierRepositoryIntegrationTestSuite) createCourier(
	id int64,
	t courier.Type,
	regions []int64,
	hours ...string,
) *courier.Courier {
	intervals, err := kernel.ParseTimeIntervals(hours)
	suite.Require().NoError(err)

	c, err := courier.NewCourier(id, t, regions, intervals)
	suite.Require().NoError(err)
	return c
}

func (suite *CourierRepositoryIntegrationTestSuite) mustGet(id int64) *courier.Courier {
	c, err := suite.repository.Get(context.Background(), id)
	suite.Require().NoError(err)
	return c
}

func TestCourierRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(CourierRepositoryIntegrationTestSuite))
}
