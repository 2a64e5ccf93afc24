package database

import (
	"fmt"
	"time"

	"gym-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedSampleData loads a small demo data set on an empty database. It is a
// no-op when any branch already exists, so it is safe to leave enabled.
func SeedSampleData(db *gorm.DB) error {
	var branchCount int64
	if err := db.Model(&models.Branch{}).Count(&branchCount).Error; err != nil {
		return err
	}
	if branchCount > 0 {
		return nil
	}

	branches := []models.Branch{
		{Name: "Downtown Branch", Location: "123 Main St", Contact: "+1234567890"},
		{Name: "Westside Branch", Location: "456 West Ave", Contact: "+1234567891"},
		{Name: "Eastside Branch", Location: "789 East Blvd", Contact: "+1234567892"},
	}
	if err := db.Create(&branches).Error; err != nil {
		return err
	}

	adminHash, err := bcrypt.GenerateFromPassword([]byte("adminpassword"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	managerHash, err := bcrypt.GenerateFromPassword([]byte("managerpassword"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	users := []models.User{
		{Username: "admin", PasswordHash: string(adminHash), Role: models.RoleAdmin},
		{Username: "manager_downtown", PasswordHash: string(managerHash), Role: models.RoleManager, BranchID: &branches[0].ID},
		{Username: "manager_westside", PasswordHash: string(managerHash), Role: models.RoleManager, BranchID: &branches[1].ID},
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}

	fp1, fp2, fp3 := 101, 102, 103
	now := time.Now()
	members := []models.Member{
		{Name: "John Doe", Email: "john@example.com", Phone: "111-222-3333", BranchID: branches[0].ID, MembershipType: models.MembershipPremium, MonthlyFee: 1000, IsActive: true, JoinDate: now, FingerprintID: &fp1},
		{Name: "Jane Smith", Email: "jane@example.com", Phone: "444-555-6666", BranchID: branches[1].ID, MembershipType: models.MembershipBasic, MonthlyFee: 650, IsActive: true, JoinDate: now, FingerprintID: &fp2},
		{Name: "Alice Johnson", Email: "alice@example.com", Phone: "777-888-9999", BranchID: branches[0].ID, MembershipType: models.MembershipVIP, MonthlyFee: 1500, IsActive: false, JoinDate: now, FingerprintID: &fp3},
	}
	if err := db.Create(&members).Error; err != nil {
		return err
	}

	currentMonth := fmt.Sprintf("%04d-%02d", now.Year(), int(now.Month()))
	paid := now
	payments := []models.Payment{
		{MemberID: members[0].ID, BranchID: members[0].BranchID, Amount: 2000, PaymentDate: &paid, PaymentMonth: currentMonth, Status: models.PaymentStatusPaid, Method: models.PaymentMethodUPI, Notes: "Monthly fee"},
		{MemberID: members[1].ID, BranchID: members[1].BranchID, Amount: 1000, PaymentDate: &paid, PaymentMonth: currentMonth, Status: models.PaymentStatusPaid, Method: models.PaymentMethodCash, Notes: "Monthly fee"},
		{MemberID: members[2].ID, BranchID: members[2].BranchID, Amount: 3000, PaymentMonth: currentMonth, Status: models.PaymentStatusNonPayable, Notes: "Inactive member"},
	}
	if err := db.Create(&payments).Error; err != nil {
		return err
	}

	expenses := []models.Expense{
		{Reason: "Rent", Amount: 5000, Date: now, BranchID: &branches[0].ID},
		{Reason: "Electricity Bill", Amount: 1200, Date: now, BranchID: &branches[0].ID},
		{Reason: "Equipment Maintenance", Amount: 800, Date: now, BranchID: &branches[1].ID},
	}
	return db.Create(&expenses).Error
}
