package dashboard

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"gym-backend/internal/database"
	"gym-backend/internal/models"
	"gym-backend/internal/scope"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createBranch(t *testing.T, db *gorm.DB, name string) models.Branch {
	t.Helper()
	b := models.Branch{Name: name}
	if err := db.Create(&b).Error; err != nil {
		t.Fatalf("create branch: %v", err)
	}
	return b
}

func createMember(t *testing.T, db *gorm.DB, branchID uint, active bool, joined time.Time) models.Member {
	t.Helper()
	m := models.Member{
		Name:           fmt.Sprintf("member-%d", time.Now().UnixNano()),
		BranchID:       branchID,
		MembershipType: models.MembershipBasic,
		MonthlyFee:     1000,
		IsActive:       active,
		JoinDate:       joined,
	}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("create member: %v", err)
	}
	return m
}

func createPaidPayment(t *testing.T, db *gorm.DB, m models.Member, amount float64, month string, method models.PaymentMethod) {
	t.Helper()
	now := time.Now()
	p := models.Payment{
		MemberID:     m.ID,
		BranchID:     m.BranchID,
		Amount:       amount,
		PaymentMonth: month,
		Status:       models.PaymentStatusPaid,
		Method:       method,
		PaymentDate:  &now,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("create payment: %v", err)
	}
}

// Branch A: two active members, fee 1000 each, both paid 2024-06 via upi.
func TestSummaryRevenueScenario(t *testing.T) {
	db := newTestDB(t)
	branchA := createBranch(t, db, "A")
	yesterday := time.Now().AddDate(0, 0, -1)
	m1 := createMember(t, db, branchA.ID, true, yesterday)
	m2 := createMember(t, db, branchA.ID, true, yesterday)
	createPaidPayment(t, db, m1, 1000, "2024-06", models.PaymentMethodUPI)
	createPaidPayment(t, db, m2, 1000, "2024-06", models.PaymentMethodUPI)

	s, err := ComputeSummary(db, &branchA.ID, "2024-06", time.Now())
	if err != nil {
		t.Fatalf("ComputeSummary: %v", err)
	}

	if s.TotalRevenue != 2000 {
		t.Errorf("totalRevenue = %v, want 2000", s.TotalRevenue)
	}
	if s.TotalRevenueByMethod.UPI != 2000 {
		t.Errorf("totalRevenueByMethod.upi = %v, want 2000", s.TotalRevenueByMethod.UPI)
	}
	if s.TotalRevenueByMethod.Cash != 0 {
		t.Errorf("totalRevenueByMethod.cash = %v, want 0", s.TotalRevenueByMethod.Cash)
	}
	if s.TotalPendingPayments != 0 {
		t.Errorf("totalPendingPayments = %v, want 0", s.TotalPendingPayments)
	}
	if s.TotalActiveMembers != 2 {
		t.Errorf("totalActiveMembers = %v, want 2", s.TotalActiveMembers)
	}
}

func TestSummaryNetRevenueIsExactDifference(t *testing.T) {
	db := newTestDB(t)
	branch := createBranch(t, db, "A")
	m := createMember(t, db, branch.ID, true, time.Now().AddDate(0, 0, -1))
	createPaidPayment(t, db, m, 1500, "2024-06", models.PaymentMethodCash)

	// expense on the last day of the month still counts
	lastDay := time.Date(2024, 6, 30, 23, 0, 0, 0, time.Local)
	if err := db.Create(&models.Expense{Reason: "Rent", Amount: 5000, Date: lastDay, BranchID: &branch.ID}).Error; err != nil {
		t.Fatalf("create expense: %v", err)
	}
	// July expense must stay outside the June window
	if err := db.Create(&models.Expense{Reason: "Repairs", Amount: 900, Date: lastDay.AddDate(0, 0, 1), BranchID: &branch.ID}).Error; err != nil {
		t.Fatalf("create expense: %v", err)
	}

	s, err := ComputeSummary(db, &branch.ID, "2024-06", time.Now())
	if err != nil {
		t.Fatalf("ComputeSummary: %v", err)
	}

	if s.TotalExpenses != 5000 {
		t.Errorf("totalExpenses = %v, want 5000", s.TotalExpenses)
	}
	if s.NetRevenue != 1500-5000 {
		t.Errorf("netRevenue = %v, want %v (may be negative, never clamped)", s.NetRevenue, 1500-5000)
	}
}

func TestSummaryManagerScopeIgnoresRequestedBranch(t *testing.T) {
	db := newTestDB(t)
	branchB := createBranch(t, db, "B")
	branchC := createBranch(t, db, "C")

	mB := createMember(t, db, branchB.ID, true, time.Now().AddDate(0, 0, -1))
	mC := createMember(t, db, branchC.ID, true, time.Now().AddDate(0, 0, -1))
	createPaidPayment(t, db, mB, 700, "2024-06", models.PaymentMethodCash)
	createPaidPayment(t, db, mC, 9000, "2024-06", models.PaymentMethodCash)

	manager := scope.Identity{Role: models.RoleManager, BranchID: &branchB.ID}

	plain, err := manager.Resolve(nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	redirected, err := manager.Resolve(&branchC.ID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	now := time.Now()
	want, err := ComputeSummary(db, plain, "2024-06", now)
	if err != nil {
		t.Fatalf("ComputeSummary: %v", err)
	}
	got, err := ComputeSummary(db, redirected, "2024-06", now)
	if err != nil {
		t.Fatalf("ComputeSummary: %v", err)
	}

	if !reflect.DeepEqual(want, got) {
		t.Errorf("requesting branch C changed the manager's summary:\nwant %+v\ngot  %+v", want, got)
	}
	if got.TotalRevenue != 700 {
		t.Errorf("totalRevenue = %v, want 700 (branch B only)", got.TotalRevenue)
	}
}

func TestSummaryEmptyStoreIsAllZeros(t *testing.T) {
	db := newTestDB(t)

	s, err := ComputeSummary(db, nil, "", time.Now())
	if err != nil {
		t.Fatalf("ComputeSummary: %v", err)
	}

	if s.TotalRevenue != 0 || s.TotalPendingPayments != 0 || s.TotalExpenses != 0 || s.NetRevenue != 0 {
		t.Errorf("totals not zero: %+v", s)
	}
	if s.MonthlyRevenue == nil || s.BranchMembers == nil {
		t.Error("lists must be empty, never null")
	}
	if len(s.MonthlyRevenue) != 0 || len(s.BranchMembers) != 0 {
		t.Errorf("lists not empty: %+v", s)
	}
}

func TestSummaryBranchWithoutMembersStillListed(t *testing.T) {
	db := newTestDB(t)
	empty := createBranch(t, db, "Empty")
	full := createBranch(t, db, "Full")
	createMember(t, db, full.ID, true, time.Now().AddDate(0, 0, -1))
	createMember(t, db, full.ID, false, time.Now().AddDate(0, 0, -1))

	s, err := ComputeSummary(db, nil, "", time.Now())
	if err != nil {
		t.Fatalf("ComputeSummary: %v", err)
	}

	if len(s.BranchMembers) != 2 {
		t.Fatalf("branchMembers rows = %d, want 2", len(s.BranchMembers))
	}
	byID := map[uint]BranchMembersRow{}
	for _, row := range s.BranchMembers {
		byID[row.BranchID] = row
	}
	if row := byID[empty.ID]; row.TotalMembers != 0 || row.ActiveMembers != 0 {
		t.Errorf("empty branch counts = %+v, want zeros", row)
	}
	if row := byID[full.ID]; row.TotalMembers != 2 || row.ActiveMembers != 1 {
		t.Errorf("full branch counts = %+v, want total 2 active 1", row)
	}
}

func TestSummaryMonthlyTrendSpansMonthsAndCapsAtTwelve(t *testing.T) {
	db := newTestDB(t)
	branch := createBranch(t, db, "A")
	m := createMember(t, db, branch.ID, true, time.Now().AddDate(0, 0, -1))

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.Local)
	for i := 0; i < 14; i++ {
		createPaidPayment(t, db, m, 100, models.MonthLabel(start.AddDate(0, i, 0)), models.PaymentMethodCash)
	}

	// month filter applies to totals, never to the trend
	s, err := ComputeSummary(db, &branch.ID, "2023-05", time.Now())
	if err != nil {
		t.Fatalf("ComputeSummary: %v", err)
	}

	if len(s.MonthlyRevenue) != 12 {
		t.Fatalf("trend length = %d, want 12", len(s.MonthlyRevenue))
	}
	if s.MonthlyRevenue[0].Month != "2023-03" || s.MonthlyRevenue[11].Month != "2024-02" {
		t.Errorf("trend window = %s..%s, want 2023-03..2024-02",
			s.MonthlyRevenue[0].Month, s.MonthlyRevenue[11].Month)
	}
	for i := 1; i < len(s.MonthlyRevenue); i++ {
		if s.MonthlyRevenue[i-1].Month >= s.MonthlyRevenue[i].Month {
			t.Fatalf("trend not ascending at %d: %s >= %s", i, s.MonthlyRevenue[i-1].Month, s.MonthlyRevenue[i].Month)
		}
	}
	if s.MonthlyRevenue[0].Revenue != 100 || s.MonthlyRevenue[0].Count != 1 {
		t.Errorf("trend point = %+v, want revenue 100 count 1", s.MonthlyRevenue[0])
	}
	if s.TotalRevenue != 100 {
		t.Errorf("totalRevenue = %v, want 100 (May only)", s.TotalRevenue)
	}
}

func TestSummaryTodayCounters(t *testing.T) {
	db := newTestDB(t)
	branch := createBranch(t, db, "A")

	old := createMember(t, db, branch.ID, true, time.Now().AddDate(0, 0, -10))
	fresh := createMember(t, db, branch.ID, true, time.Now())
	_ = fresh

	if err := db.Create(&models.Attendance{MemberID: old.ID, BranchID: branch.ID, CheckInTime: time.Now()}).Error; err != nil {
		t.Fatalf("create attendance: %v", err)
	}

	s, err := ComputeSummary(db, &branch.ID, "", time.Now())
	if err != nil {
		t.Fatalf("ComputeSummary: %v", err)
	}

	if s.TodayAttendance != 1 {
		t.Errorf("todayAttendance = %d, want 1", s.TodayAttendance)
	}
	if s.TodayNewMembers != 1 {
		t.Errorf("todayNewMembers = %d, want 1", s.TodayNewMembers)
	}
	if s.TotalActiveMembers != 2 {
		t.Errorf("totalActiveMembers = %d, want 2", s.TotalActiveMembers)
	}
}
