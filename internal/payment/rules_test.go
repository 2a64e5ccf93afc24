package payment

import (
	"testing"
	"time"

	"gym-backend/internal/database"
	"gym-backend/internal/models"

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

type fixture struct {
	branchA, branchB models.Branch
	membersA         []models.Member
	memberB          models.Member
}

// two members in branch A with pending payments for 2024-06, one member in
// branch B, plus a 2024-05 payment that no bulk update for 2024-06 may touch
func seedBulkFixture(t *testing.T, db *gorm.DB) fixture {
	t.Helper()

	f := fixture{
		branchA: models.Branch{Name: "A"},
		branchB: models.Branch{Name: "B"},
	}
	if err := db.Create(&f.branchA).Error; err != nil {
		t.Fatalf("create branch: %v", err)
	}
	if err := db.Create(&f.branchB).Error; err != nil {
		t.Fatalf("create branch: %v", err)
	}

	for i := 0; i < 2; i++ {
		m := models.Member{
			Name:           "Member A",
			BranchID:       f.branchA.ID,
			MembershipType: models.MembershipBasic,
			MonthlyFee:     1000,
			IsActive:       true,
			JoinDate:       time.Now(),
		}
		if err := db.Create(&m).Error; err != nil {
			t.Fatalf("create member: %v", err)
		}
		f.membersA = append(f.membersA, m)

		p := models.Payment{
			MemberID:     m.ID,
			BranchID:     m.BranchID,
			Amount:       1000,
			PaymentMonth: "2024-06",
			Status:       models.PaymentStatusPending,
		}
		if err := db.Create(&p).Error; err != nil {
			t.Fatalf("create payment: %v", err)
		}
	}

	f.memberB = models.Member{
		Name:           "Member B",
		BranchID:       f.branchB.ID,
		MembershipType: models.MembershipBasic,
		MonthlyFee:     500,
		IsActive:       true,
		JoinDate:       time.Now(),
	}
	if err := db.Create(&f.memberB).Error; err != nil {
		t.Fatalf("create member: %v", err)
	}
	for _, month := range []string{"2024-06", "2024-05"} {
		p := models.Payment{
			MemberID:     f.memberB.ID,
			BranchID:     f.memberB.BranchID,
			Amount:       500,
			PaymentMonth: month,
			Status:       models.PaymentStatusPending,
		}
		if err := db.Create(&p).Error; err != nil {
			t.Fatalf("create payment: %v", err)
		}
	}
	return f
}

func TestApplyStatusFields(t *testing.T) {
	now := time.Now()

	p := models.Payment{Status: models.PaymentStatusPending}
	applyStatusFields(&p, models.PaymentStatusPaid, models.PaymentMethodCard, now)
	if p.Status != models.PaymentStatusPaid || p.PaymentDate == nil || p.Method != models.PaymentMethodCard {
		t.Fatalf("paid transition left %+v", p)
	}

	applyStatusFields(&p, models.PaymentStatusOverdue, "", now)
	if p.Status != models.PaymentStatusOverdue || p.PaymentDate != nil || p.Method != "" {
		t.Fatalf("non-paid transition must clear date and method, got %+v", p)
	}
}

func TestBulkSetStatusAllScopeMembers(t *testing.T) {
	db := newTestDB(t)
	seedBulkFixture(t, db)

	count, err := BulkSetStatus(db, nil, "2024-06", models.PaymentStatusPaid, nil, nil, time.Now())
	if err != nil {
		t.Fatalf("BulkSetStatus: %v", err)
	}
	if count != 3 {
		t.Fatalf("modified = %d, want 3 (only 2024-06 rows)", count)
	}

	var rows []models.Payment
	db.Where("payment_month = ?", "2024-06").Find(&rows)
	for _, p := range rows {
		if p.Status != models.PaymentStatusPaid {
			t.Errorf("payment %d status = %s, want paid", p.ID, p.Status)
		}
		if p.PaymentDate == nil || p.Method != models.PaymentMethodBulk {
			t.Errorf("payment %d missing bulk paid fields: date=%v method=%s", p.ID, p.PaymentDate, p.Method)
		}
	}

	var untouched models.Payment
	db.Where("payment_month = ?", "2024-05").First(&untouched)
	if untouched.Status != models.PaymentStatusPending {
		t.Errorf("2024-05 payment was modified, status = %s", untouched.Status)
	}
}

func TestBulkSetStatusIncludeListBoundsCount(t *testing.T) {
	db := newTestDB(t)
	f := seedBulkFixture(t, db)

	include := []uint{f.membersA[0].ID, 99999} // one real, one without payments
	count, err := BulkSetStatus(db, nil, "2024-06", models.PaymentStatusNonPayable, include, nil, time.Now())
	if err != nil {
		t.Fatalf("BulkSetStatus: %v", err)
	}
	if count > int64(len(include)) {
		t.Fatalf("modified = %d, want <= %d", count, len(include))
	}
	if count != 1 {
		t.Fatalf("modified = %d, want 1", count)
	}
}

func TestBulkSetStatusIncludeWinsOverExclude(t *testing.T) {
	db := newTestDB(t)
	f := seedBulkFixture(t, db)

	// the exclude list names the same member; include wins and it is updated
	count, err := BulkSetStatus(db, nil, "2024-06", models.PaymentStatusPaid,
		[]uint{f.membersA[0].ID}, []uint{f.membersA[0].ID}, time.Now())
	if err != nil {
		t.Fatalf("BulkSetStatus: %v", err)
	}
	if count != 1 {
		t.Fatalf("modified = %d, want 1", count)
	}
}

func TestBulkSetStatusExcludeList(t *testing.T) {
	db := newTestDB(t)
	f := seedBulkFixture(t, db)

	count, err := BulkSetStatus(db, nil, "2024-06", models.PaymentStatusPaid,
		nil, []uint{f.membersA[0].ID}, time.Now())
	if err != nil {
		t.Fatalf("BulkSetStatus: %v", err)
	}
	if count != 2 {
		t.Fatalf("modified = %d, want 2", count)
	}

	var excluded models.Payment
	db.Where("member_id = ?", f.membersA[0].ID).First(&excluded)
	if excluded.Status != models.PaymentStatusPending {
		t.Errorf("excluded member's payment status = %s, want pending", excluded.Status)
	}
}

func TestBulkSetStatusRespectsBranchFilter(t *testing.T) {
	db := newTestDB(t)
	f := seedBulkFixture(t, db)

	count, err := BulkSetStatus(db, &f.branchA.ID, "2024-06", models.PaymentStatusPaid, nil, nil, time.Now())
	if err != nil {
		t.Fatalf("BulkSetStatus: %v", err)
	}
	if count != 2 {
		t.Fatalf("modified = %d, want 2 (branch A only)", count)
	}

	var other models.Payment
	db.Where("member_id = ? AND payment_month = ?", f.memberB.ID, "2024-06").First(&other)
	if other.Status != models.PaymentStatusPending {
		t.Errorf("branch B payment was modified, status = %s", other.Status)
	}
}

func TestBulkSetStatusOverwritesRegardlessOfCurrentStatus(t *testing.T) {
	db := newTestDB(t)
	f := seedBulkFixture(t, db)

	if _, err := BulkSetStatus(db, nil, "2024-06", models.PaymentStatusPaid, nil, nil, time.Now()); err != nil {
		t.Fatalf("first bulk: %v", err)
	}
	count, err := BulkSetStatus(db, nil, "2024-06", models.PaymentStatusPending, nil, nil, time.Now())
	if err != nil {
		t.Fatalf("second bulk: %v", err)
	}
	if count != 3 {
		t.Fatalf("modified = %d, want 3 (paid rows are overwritten too)", count)
	}

	var p models.Payment
	db.Where("member_id = ?", f.membersA[0].ID).First(&p)
	if p.Status != models.PaymentStatusPending || p.PaymentDate != nil || p.Method != "" {
		t.Errorf("reverted payment kept paid fields: %+v", p)
	}
}

func TestBulkSetStatusNoMatchesIsNotAnError(t *testing.T) {
	db := newTestDB(t)
	seedBulkFixture(t, db)

	count, err := BulkSetStatus(db, nil, "2030-01", models.PaymentStatusPaid, nil, nil, time.Now())
	if err != nil {
		t.Fatalf("BulkSetStatus: %v", err)
	}
	if count != 0 {
		t.Fatalf("modified = %d, want 0", count)
	}
}
