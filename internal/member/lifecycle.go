package member

import (
	"gym-backend/internal/models"

	"gorm.io/gorm"
)

// SetActive flips the member's active flag and re-statuses the member's
// payments in the same transaction, so the flag change and the payment
// sweep land together or not at all.
//
// Deactivation parks every pending/overdue payment as non_payable; paid
// rows are never touched. Reactivation returns non_payable rows to
// pending. Both directions are idempotent. Concurrent toggles on the same
// member are last-write-wins.
func SetActive(db *gorm.DB, m *models.Member, active bool) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(m).Update("is_active", active).Error; err != nil {
			return err
		}

		if active {
			return tx.Model(&models.Payment{}).
				Where("member_id = ? AND status = ?", m.ID, models.PaymentStatusNonPayable).
				Update("status", models.PaymentStatusPending).Error
		}
		return tx.Model(&models.Payment{}).
			Where("member_id = ? AND status IN ?", m.ID,
				[]models.PaymentStatus{models.PaymentStatusPending, models.PaymentStatusOverdue}).
			Update("status", models.PaymentStatusNonPayable).Error
	})
}

// DeleteCascade removes the member together with every payment and
// attendance row referencing it. Dependent rows go first so a failure
// cannot orphan them behind a deleted parent.
func DeleteCascade(db *gorm.DB, m *models.Member) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("member_id = ?", m.ID).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("member_id = ?", m.ID).Delete(&models.Attendance{}).Error; err != nil {
			return err
		}
		return tx.Delete(m).Error
	})
}
