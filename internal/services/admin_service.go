// internal/services/admin_service.go
package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nightpulse/backend/internal/models"
	"github.com/nightpulse/backend/internal/utils"
)

var ErrUserNotFound = errors.New("user not found")

type AdminService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type AdminDashboardStats struct {
	TotalUsers        int64   `json:"total_users"`
	ActiveUsers       int64   `json:"active_users"`
	NewUsersThisMonth int64   `json:"new_users_this_month"`
	TotalEvents       int64   `json:"total_events"`
	PublishedEvents   int64   `json:"published_events"`
	TicketsSold       int64   `json:"tickets_sold"`
	TicketsScanned    int64   `json:"tickets_scanned"`
	TotalRevenue      float64 `json:"total_revenue"`
	MonthlyRevenue    float64 `json:"monthly_revenue"`
	ServiceFeeRevenue float64 `json:"service_fee_revenue"`
	PointsAwarded     int64   `json:"points_awarded"`
	UserGrowth        float64 `json:"user_growth"`
	RevenueGrowth     float64 `json:"revenue_growth"`
}

type AdminUserFilter struct {
	utils.PaginationParams
	Role          *models.Role       `json:"role,omitempty"`
	Status        *models.UserStatus `json:"status,omitempty"`
	CreatedAfter  *time.Time         `json:"created_after,omitempty"`
	CreatedBefore *time.Time         `json:"created_before,omitempty"`
}

type AdminTransactionFilter struct {
	utils.PaginationParams
	Status        *models.TransactionStatus `json:"status,omitempty"`
	UserID        *uuid.UUID                `json:"user_id,omitempty"`
	EventID       *uuid.UUID                `json:"event_id,omitempty"`
	AmountMin     *float64                  `json:"amount_min,omitempty"`
	AmountMax     *float64                  `json:"amount_max,omitempty"`
	CreatedAfter  *time.Time                `json:"created_after,omitempty"`
	CreatedBefore *time.Time                `json:"created_before,omitempty"`
}

func NewAdminService(db *gorm.DB, notificationService *NotificationService) *AdminService {
	return &AdminService{
		db:                  db,
		notificationService: notificationService,
	}
}

func (s *AdminService) GetDashboardStats() (*AdminDashboardStats, error) {
	stats := &AdminDashboardStats{}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	s.db.Model(&models.User{}).Count(&stats.TotalUsers)
	s.db.Model(&models.User{}).Where("status = ?", models.UserStatusActive).Count(&stats.ActiveUsers)
	s.db.Model(&models.User{}).Where("created_at >= ?", monthStart).Count(&stats.NewUsersThisMonth)

	s.db.Model(&models.Event{}).Count(&stats.TotalEvents)
	s.db.Model(&models.Event{}).Where("status = ?", models.EventStatusPublished).Count(&stats.PublishedEvents)

	s.db.Model(&models.Ticket{}).Count(&stats.TicketsSold)
	s.db.Model(&models.Ticket{}).Where("status = ?", models.TicketStatusUsed).Count(&stats.TicketsScanned)

	s.db.Model(&models.PaymentTransaction{}).
		Where("status = ?", models.TransactionStatusCompleted).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&stats.TotalRevenue)

	s.db.Model(&models.PaymentTransaction{}).
		Where("status = ? AND created_at >= ?", models.TransactionStatusCompleted, monthStart).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&stats.MonthlyRevenue)

	s.db.Model(&models.PaymentTransaction{}).
		Where("status = ?", models.TransactionStatusCompleted).
		Select("COALESCE(SUM(service_fee), 0)").Scan(&stats.ServiceFeeRevenue)

	s.db.Model(&models.PaymentTransaction{}).
		Where("status = ?", models.TransactionStatusCompleted).
		Select("COALESCE(SUM(points_awarded), 0)").Scan(&stats.PointsAwarded)

	var lastMonthUsers int64
	s.db.Model(&models.User{}).
		Where("created_at >= ? AND created_at < ?", lastMonthStart, monthStart).
		Count(&lastMonthUsers)

	var lastMonthRevenue float64
	s.db.Model(&models.PaymentTransaction{}).
		Where("status = ? AND created_at >= ? AND created_at < ?",
			models.TransactionStatusCompleted, lastMonthStart, monthStart).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&lastMonthRevenue)

	if lastMonthUsers > 0 {
		stats.UserGrowth = float64(stats.NewUsersThisMonth-lastMonthUsers) / float64(lastMonthUsers) * 100
	}
	if lastMonthRevenue > 0 {
		stats.RevenueGrowth = (stats.MonthlyRevenue - lastMonthRevenue) / lastMonthRevenue * 100
	}

	return stats, nil
}

func (s *AdminService) GetUsers(filter AdminUserFilter) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{})

	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("username ILIKE ? OR email ILIKE ?", search, search)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	query = utils.ApplySort(query, filter.PaginationParams, []string{"created_at", "username", "points", "last_login_at"})
	query = utils.ApplyPagination(query, filter.PaginationParams)
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// UpdateUserRole changes a user's role. Promotions to admin go through here
// and nowhere else.
func (s *AdminService) UpdateUserRole(userID uuid.UUID, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, errors.New("invalid role")
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.db.Model(&user).Update("role", role).Error; err != nil {
		return nil, err
	}
	user.Role = role

	return &user, nil
}

func (s *AdminService) UpdateUserStatus(userID uuid.UUID, status models.UserStatus) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.db.Model(&user).Update("status", status).Error; err != nil {
		return nil, err
	}
	user.Status = status

	return &user, nil
}

func (s *AdminService) GetTransactions(filter AdminTransactionFilter) ([]models.PaymentTransaction, int64, error) {
	query := s.db.Model(&models.PaymentTransaction{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.EventID != nil {
		query = query.Where("event_id = ?", *filter.EventID)
	}
	if filter.AmountMin != nil {
		query = query.Where("total_amount >= ?", *filter.AmountMin)
	}
	if filter.AmountMax != nil {
		query = query.Where("total_amount <= ?", *filter.AmountMax)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var transactions []models.PaymentTransaction
	query = utils.ApplySort(query, filter.PaginationParams, []string{"created_at", "total_amount", "status"})
	query = utils.ApplyPagination(query, filter.PaginationParams)
	if err := query.Preload("Event").Preload("User").Find(&transactions).Error; err != nil {
		return nil, 0, err
	}

	return transactions, total, nil
}

func (s *AdminService) GetAuditLogs(params utils.PaginationParams) ([]models.AuditLog, int64, error) {
	query := s.db.Model(&models.AuditLog{})

	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("action ILIKE ? OR resource_type ILIKE ?", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.AuditLog
	query = utils.ApplySort(query, params, []string{"created_at", "action"})
	query = utils.ApplyPagination(query, params)
	if err := query.Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
