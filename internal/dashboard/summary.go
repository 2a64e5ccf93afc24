package dashboard

import (
	"time"

	"gym-backend/internal/expense"
	"gym-backend/internal/models"
	"gym-backend/internal/scope"

	"gorm.io/gorm"
)

type RevenueByMethod struct {
	UPI  float64 `json:"upi"`
	Cash float64 `json:"cash"`
}

type MonthlyRevenuePoint struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
	Count   int64   `json:"count"`
}

type BranchMembersRow struct {
	BranchID      uint   `json:"branchId"`
	BranchName    string `json:"branchName"`
	TotalMembers  int64  `json:"totalMembers"`
	ActiveMembers int64  `json:"activeMembers"`
}

// Summary is the flat dashboard payload. Every count and sum is zero-valued
// when nothing matches, never null.
type Summary struct {
	TotalRevenue         float64               `json:"totalRevenue"`
	TotalRevenueByMethod RevenueByMethod       `json:"totalRevenueByMethod"`
	TotalPendingPayments float64               `json:"totalPendingPayments"`
	TotalExpenses        float64               `json:"totalExpenses"`
	NetRevenue           float64               `json:"netRevenue"`
	MonthlyRevenue       []MonthlyRevenuePoint `json:"monthlyRevenue"`
	BranchMembers        []BranchMembersRow    `json:"branchMembers"`
	TodayAttendance      int64                 `json:"todayAttendance"`
	TotalActiveMembers   int64                 `json:"totalActiveMembers"`
	TodayNewMembers      int64                 `json:"todayNewMembers"`
}

// ComputeSummary assembles the dashboard for the given branch filter and
// optional "YYYY-MM" month. The month narrows revenue, pending and expense
// totals; the monthly trend always spans all months. Reads are independent
// snapshots of the store, no locking.
func ComputeSummary(db *gorm.DB, filter *uint, month string, now time.Time) (*Summary, error) {
	s := &Summary{
		MonthlyRevenue: make([]MonthlyRevenuePoint, 0),
		BranchMembers:  make([]BranchMembersRow, 0),
	}

	// 1) Revenue with upi/cash breakdown of the same filtered set.
	type revenueRow struct {
		Total float64 `gorm:"column:total"`
		UPI   float64 `gorm:"column:upi"`
		Cash  float64 `gorm:"column:cash"`
	}
	var rev revenueRow
	q := scope.Apply(db.Model(&models.Payment{}), "branch_id", filter).
		Select(
			"COALESCE(SUM(amount), 0) AS total, "+
				"COALESCE(SUM(CASE WHEN method = ? THEN amount ELSE 0 END), 0) AS upi, "+
				"COALESCE(SUM(CASE WHEN method = ? THEN amount ELSE 0 END), 0) AS cash",
			models.PaymentMethodUPI, models.PaymentMethodCash).
		Where("status = ?", models.PaymentStatusPaid)
	if month != "" {
		q = q.Where("payment_month = ?", month)
	}
	if err := q.Scan(&rev).Error; err != nil {
		return nil, err
	}
	s.TotalRevenue = rev.Total
	s.TotalRevenueByMethod = RevenueByMethod{UPI: rev.UPI, Cash: rev.Cash}

	// 2) Pending total, same scope/month filter.
	q = scope.Apply(db.Model(&models.Payment{}), "branch_id", filter).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ?", models.PaymentStatusPending)
	if month != "" {
		q = q.Where("payment_month = ?", month)
	}
	if err := q.Scan(&s.TotalPendingPayments).Error; err != nil {
		return nil, err
	}

	// 3) Expenses inside the month's calendar bounds.
	q = scope.Apply(db.Model(&models.Expense{}), "branch_id", filter).
		Select("COALESCE(SUM(amount), 0)")
	if month != "" {
		from, to, err := expense.MonthBounds(month)
		if err != nil {
			return nil, err
		}
		q = q.Where("date >= ? AND date < ?", from, to)
	}
	if err := q.Scan(&s.TotalExpenses).Error; err != nil {
		return nil, err
	}

	// 4) Net revenue may go negative, deliberately not clamped.
	s.NetRevenue = s.TotalRevenue - s.TotalExpenses

	// 5) Monthly trend across all months, capped at the 12 most recent.
	var trend []MonthlyRevenuePoint
	if err := scope.Apply(db.Model(&models.Payment{}), "branch_id", filter).
		Select("payment_month AS month, SUM(amount) AS revenue, COUNT(*) AS count").
		Where("status = ?", models.PaymentStatusPaid).
		Group("payment_month").
		Order("payment_month ASC").
		Scan(&trend).Error; err != nil {
		return nil, err
	}
	if len(trend) > 12 {
		trend = trend[len(trend)-12:]
	}
	s.MonthlyRevenue = trend

	// 6) Per-branch member counts. Left join so empty branches still show
	// up with zeros.
	q = db.Table("branches b").
		Select("b.id AS branch_id, b.name AS branch_name, " +
			"COUNT(m.id) AS total_members, " +
			"COALESCE(SUM(CASE WHEN m.is_active THEN 1 ELSE 0 END), 0) AS active_members").
		Joins("LEFT JOIN members m ON m.branch_id = b.id").
		Group("b.id, b.name").
		Order("b.name ASC")
	if filter != nil {
		q = q.Where("b.id = ?", *filter)
	}
	if err := q.Scan(&s.BranchMembers).Error; err != nil {
		return nil, err
	}

	// 7-9) Today's counters use the local server day boundary.
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if err := scope.Apply(db.Model(&models.Attendance{}), "branch_id", filter).
		Where("created_at >= ?", startOfDay).
		Count(&s.TodayAttendance).Error; err != nil {
		return nil, err
	}

	if err := scope.Apply(db.Model(&models.Member{}), "branch_id", filter).
		Where("is_active = ?", true).
		Count(&s.TotalActiveMembers).Error; err != nil {
		return nil, err
	}

	if err := scope.Apply(db.Model(&models.Member{}), "branch_id", filter).
		Where("join_date >= ?", startOfDay).
		Count(&s.TodayNewMembers).Error; err != nil {
		return nil, err
	}

	return s, nil
}
