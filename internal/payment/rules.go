package payment

import (
	"time"

	"gym-backend/internal/models"
	"gym-backend/internal/scope"

	"gorm.io/gorm"
)

// applyStatusFields enforces the status/date/method co-constraint on a
// payment: paid carries a timestamp and a method, everything else carries
// neither.
func applyStatusFields(p *models.Payment, status models.PaymentStatus, method models.PaymentMethod, now time.Time) {
	p.Status = status
	if status == models.PaymentStatusPaid {
		p.PaymentDate = &now
		p.Method = method
		return
	}
	p.PaymentDate = nil
	p.Method = ""
}

// BulkSetStatus overwrites the status of every payment for the given month
// whose member falls inside the branch filter and the include/exclude
// selection. The include list wins: when present the exclude list is
// ignored. The overwrite is unconditional on the current status and is
// issued as a single store-level UPDATE with a member subquery, so it
// cannot be half-applied under concurrent writes.
func BulkSetStatus(db *gorm.DB, filter *uint, month string, newStatus models.PaymentStatus, include, exclude []uint, now time.Time) (int64, error) {
	memberQuery := scope.Apply(db.Model(&models.Member{}).Select("id"), "branch_id", filter)
	if len(include) > 0 {
		memberQuery = memberQuery.Where("id IN ?", include)
	} else if len(exclude) > 0 {
		memberQuery = memberQuery.Where("id NOT IN ?", exclude)
	}

	updates := map[string]interface{}{
		"status":       newStatus,
		"payment_date": nil,
		"method":       "",
	}
	if newStatus == models.PaymentStatusPaid {
		updates["payment_date"] = now
		updates["method"] = models.PaymentMethodBulk
	}

	res := db.Model(&models.Payment{}).
		Where("payment_month = ? AND member_id IN (?)", month, memberQuery).
		Updates(updates)
	return res.RowsAffected, res.Error
}
