package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"coffeehouse/coffee-service/internal/app/coffee/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// GormRepositoryTestSuite тестовый suite для PostgreSQL repository
type GormRepositoryTestSuite struct {
	suite.Suite
	db          *gorm.DB
	mock        sqlmock.Sqlmock
	sqlDB       *sql.DB
	coffees     CoffeeRepository
	ingredients IngredientRepository
}

func TestGormRepositorySuite(t *testing.T) {
	suite.Run(t, new(GormRepositoryTestSuite))
}

func (s *GormRepositoryTestSuite) SetupTest() {
	var err error
	s.sqlDB, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	dialector := postgres.New(postgres.Config{
		Conn:       s.sqlDB,
		DriverName: "postgres",
	})

	s.db, err = gorm.Open(dialector, &gorm.Config{})
	require.NoError(s.T(), err)

	s.coffees = NewCoffeeRepository(s.db)
	s.ingredients = NewIngredientRepository(s.db)
}

func (s *GormRepositoryTestSuite) TearDownTest() {
	s.sqlDB.Close()
}

func coffeeRows(items ...entity.Coffee) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "name"})
	for _, c := range items {
		rows.AddRow(c.ID, c.CreatedAt, c.UpdatedAt, c.Name)
	}
	return rows
}

func newCoffee(name string) entity.Coffee {
	return entity.Coffee{Base: entity.NewBase(time.Now()), Name: name}
}

// ===================== GetByID Tests =====================

func (s *GormRepositoryTestSuite) TestGetByID_Success() {
	ctx := context.Background()
	coffee := newCoffee("Espresso")

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "coffees" WHERE id = $1`)).
		WillReturnRows(coffeeRows(coffee))

	got, err := s.coffees.GetByID(ctx, coffee.ID)

	s.NoError(err)
	s.Require().NotNil(got)
	s.Equal(coffee.ID, got.ID)
	s.Equal("Espresso", got.Name)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *GormRepositoryTestSuite) TestGetByID_NotFound() {
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "coffees" WHERE id = $1`)).
		WillReturnRows(coffeeRows())

	got, err := s.coffees.GetByID(context.Background(), uuid.New())

	s.Nil(got)
	s.ErrorIs(err, ErrNotFound)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *GormRepositoryTestSuite) TestGetByID_DBError() {
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "coffees" WHERE id = $1`)).
		WillReturnError(sql.ErrConnDone)

	got, err := s.coffees.GetByID(context.Background(), uuid.New())

	s.Nil(got)
	s.Error(err)
	s.NotErrorIs(err, ErrNotFound)
	s.Contains(err.Error(), "failed to get coffees by id")
}

// ===================== GetByName Tests =====================

func (s *GormRepositoryTestSuite) TestGetByName_CaseInsensitive() {
	coffee := newCoffee("Espresso")

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "coffees" WHERE LOWER(name) = LOWER($1)`)).
		WillReturnRows(coffeeRows(coffee))

	got, err := s.coffees.GetByName(context.Background(), "eSpReSsO")

	s.NoError(err)
	s.Require().NotNil(got)
	s.Equal("Espresso", got.Name)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *GormRepositoryTestSuite) TestGetByName_NotFound() {
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "coffees" WHERE LOWER(name) = LOWER($1)`)).
		WillReturnRows(coffeeRows())

	got, err := s.coffees.GetByName(context.Background(), "Mocha")

	s.Nil(got)
	s.ErrorIs(err, ErrNotFound)
}

// ===================== GetAll Tests =====================

func (s *GormRepositoryTestSuite) TestGetAll_OrderedByName() {
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "coffees" ORDER BY name ASC`)).
		WillReturnRows(coffeeRows(newCoffee("Americano"), newCoffee("Latte")))

	items, err := s.coffees.GetAll(context.Background())

	s.NoError(err)
	s.Len(items, 2)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== GetByFilterWithCount Tests =====================

func (s *GormRepositoryTestSuite) TestGetByFilterWithCount_DefaultSort() {
	query := entity.ListQuery{Page: 2, PageSize: 1}

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "coffees"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "coffees" ORDER BY name ASC, id ASC`)).
		WillReturnRows(coffeeRows(newCoffee("Cappuccino")))

	items, total, err := s.coffees.GetByFilterWithCount(context.Background(), query)

	s.NoError(err)
	s.Equal(int64(3), total)
	s.Len(items, 1)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *GormRepositoryTestSuite) TestGetByFilterWithCount_SearchEscapesWildcards() {
	query := entity.ListQuery{Search: "50%_Off", Page: 1, PageSize: 10}

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "coffees" WHERE LOWER(name) LIKE $1`)).
		WithArgs(`%50\%\_off%`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "coffees" WHERE LOWER(name) LIKE $1 ORDER BY name ASC, id ASC`)).
		WillReturnRows(coffeeRows())

	items, total, err := s.coffees.GetByFilterWithCount(context.Background(), query)

	s.NoError(err)
	s.Zero(total)
	s.Empty(items)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *GormRepositoryTestSuite) TestGetByFilterWithCount_SortDescendingCaseInsensitive() {
	query := entity.ListQuery{SortBy: "CreatedAt", SortDescending: true, Page: 1, PageSize: 10}

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "coffees"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	s.mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY created_at DESC, id ASC`)).
		WillReturnRows(coffeeRows())

	_, _, err := s.coffees.GetByFilterWithCount(context.Background(), query)

	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *GormRepositoryTestSuite) TestGetByFilterWithCount_UnknownSortFallsBackToName() {
	query := entity.ListQuery{SortBy: "price; DROP TABLE coffees", SortDescending: true, Page: 1, PageSize: 10}

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "coffees"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	s.mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY name ASC, id ASC`)).
		WillReturnRows(coffeeRows())

	_, _, err := s.coffees.GetByFilterWithCount(context.Background(), query)

	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *GormRepositoryTestSuite) TestGetByFilterWithCount_IngredientActiveFilter() {
	active := false
	query := entity.ListQuery{IsActive: &active, SortBy: "isActive", Page: 1, PageSize: 10}

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "ingredients" WHERE is_active = $1`)).
		WithArgs(false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "ingredients" WHERE is_active = $1 ORDER BY is_active ASC, id ASC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "name", "description", "is_active"}).
			AddRow(uuid.New(), time.Now(), time.Now(), "Cocoa", nil, false))

	items, total, err := s.ingredients.GetByFilterWithCount(context.Background(), query)

	s.NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(items, 1)
	s.False(items[0].IsActive)
	s.Nil(items[0].Description)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *GormRepositoryTestSuite) TestGetByFilterWithCount_CountError() {
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "coffees"`)).
		WillReturnError(sql.ErrConnDone)

	_, _, err := s.coffees.GetByFilterWithCount(context.Background(), entity.DefaultListQuery())

	s.Error(err)
	s.Contains(err.Error(), "failed to count coffees")
}

// ===================== Create Tests =====================

func (s *GormRepositoryTestSuite) TestCreate_Success() {
	coffee := newCoffee("Mocha")

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "coffees"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	err := s.coffees.Create(context.Background(), &coffee)

	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *GormRepositoryTestSuite) TestCreate_UniqueViolation() {
	coffee := newCoffee("Espresso")

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "coffees"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	s.mock.ExpectRollback()

	err := s.coffees.Create(context.Background(), &coffee)

	s.ErrorIs(err, ErrDuplicateName)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== Update Tests =====================

func (s *GormRepositoryTestSuite) TestUpdate_Success() {
	coffee := newCoffee("Flat White")

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "coffees" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	err := s.coffees.Update(context.Background(), &coffee)

	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *GormRepositoryTestSuite) TestUpdate_NotFound() {
	coffee := newCoffee("Flat White")

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "coffees" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	err := s.coffees.Update(context.Background(), &coffee)

	s.ErrorIs(err, ErrNotFound)
}

func (s *GormRepositoryTestSuite) TestUpdate_DBError() {
	coffee := newCoffee("Flat White")

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "coffees" SET`)).
		WillReturnError(sql.ErrConnDone)
	s.mock.ExpectRollback()

	err := s.coffees.Update(context.Background(), &coffee)

	s.Error(err)
	s.Contains(err.Error(), "failed to update coffees")
}

// ===================== Delete Tests =====================

func (s *GormRepositoryTestSuite) TestDelete_Success() {
	id := uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "coffees" WHERE id = $1`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	s.NoError(s.coffees.Delete(context.Background(), id))
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *GormRepositoryTestSuite) TestDelete_AbsentIsNoOp() {
	id := uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "coffees" WHERE id = $1`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	s.NoError(s.coffees.Delete(context.Background(), id))
	s.NoError(s.mock.ExpectationsWereMet())
}
