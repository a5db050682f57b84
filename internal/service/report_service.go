package service

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/yourorg/roomreserve/internal/domain"
)

// ReportService builds the periodic performance report for operators. The
// report combines live totals with a trailing window of recent activity and
// distills them into a 0-100 health score.
type ReportService struct {
	userRepo    domain.UserRepository
	bookingRepo domain.BookingRepository
	roomRepo    domain.RoomRepository
	logger      *slog.Logger
}

// NewReportService creates a new report service
func NewReportService(
	userRepo domain.UserRepository,
	bookingRepo domain.BookingRepository,
	roomRepo domain.RoomRepository,
	logger *slog.Logger,
) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		userRepo:    userRepo,
		bookingRepo: bookingRepo,
		roomRepo:    roomRepo,
		logger:      logger,
	}
}

// ReportMetadata describes when the report was made and what it covers.
type ReportMetadata struct {
	GeneratedAt time.Time `json:"generated_at"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	PeriodDays  int       `json:"period_days"`
	ReportType  string    `json:"report_type"`
}

// UserMetrics covers account growth and activity within the period.
type UserMetrics struct {
	TotalUsers     int     `json:"total_users"`
	NewUsers       int     `json:"new_users"`
	ActiveUsers    int     `json:"active_users"` // distinct accounts that booked in the period
	AdminUsers     int     `json:"admin_users"`
	RegularUsers   int     `json:"regular_users"`
	UserGrowthRate float64 `json:"user_growth_rate"`
}

// BookingMetrics covers booking volume and lifecycle outcomes in the period.
type BookingMetrics struct {
	TotalBookings     int     `json:"total_bookings"`
	NewBookings       int     `json:"new_bookings"`
	ConfirmedBookings int     `json:"confirmed_bookings"`
	CancelledBookings int     `json:"cancelled_bookings"`
	PendingBookings   int     `json:"pending_bookings"`
	ConfirmationRate  float64 `json:"confirmation_rate"`
	CancellationRate  float64 `json:"cancellation_rate"`
	AvgGuests         float64 `json:"avg_guests_per_booking"`
	AvgNights         float64 `json:"avg_nights_per_booking"`
}

// RoomRevenue names one room's contribution to period revenue.
type RoomRevenue struct {
	Room    string  `json:"room"`
	Revenue float64 `json:"revenue"`
}

// RevenueMetrics covers money earned and lost within the period. Revenue
// only counts confirmed bookings; cancelled and pending value is "lost".
type RevenueMetrics struct {
	TotalRevenue     float64       `json:"total_revenue"`
	AvgBookingValue  float64       `json:"avg_booking_value"`
	PotentialRevenue float64       `json:"potential_revenue"`
	LostRevenue      float64       `json:"lost_revenue"`
	TopRooms         []RoomRevenue `json:"top_performing_rooms"`
}

// RoomMetrics covers the catalog itself.
type RoomMetrics struct {
	TotalRooms   int     `json:"total_rooms"`
	AvgRoomPrice float64 `json:"avg_room_price"`
	MinRoomPrice float64 `json:"min_room_price"`
	MaxRoomPrice float64 `json:"max_room_price"`
}

// HealthScore is the 0-100 summary of the report: bookings weigh 40 points,
// users and revenue 30 each.
type HealthScore struct {
	TotalScore   int    `json:"total_score"`
	BookingScore int    `json:"booking_score"`
	UserScore    int    `json:"user_score"`
	RevenueScore int    `json:"revenue_score"`
	Status       string `json:"status"`
	MaxScore     int    `json:"max_score"`
}

// PerformanceReport is the full report document.
type PerformanceReport struct {
	Metadata ReportMetadata `json:"report_metadata"`
	Users    UserMetrics    `json:"user_metrics"`
	Bookings BookingMetrics `json:"booking_metrics"`
	Revenue  RevenueMetrics `json:"revenue_metrics"`
	Rooms    RoomMetrics    `json:"room_metrics"`
	Health   HealthScore    `json:"health_score"`
}

// WeeklyReport builds the report over the trailing seven days.
func (s *ReportService) WeeklyReport() (*PerformanceReport, error) {
	return s.BuildReport(7)
}

// BuildReport builds a report over the trailing periodDays days.
func (s *ReportService) BuildReport(periodDays int) (*PerformanceReport, error) {
	if periodDays <= 0 {
		periodDays = 7
	}
	now := time.Now().UTC()
	since := now.AddDate(0, 0, -periodDays)

	periodBookings, err := s.bookingRepo.ListCreatedSince(since)
	if err != nil {
		return nil, err
	}
	bookingStats, err := s.bookingRepo.Stats()
	if err != nil {
		return nil, err
	}
	userStats, err := s.userRepo.Stats()
	if err != nil {
		return nil, err
	}
	newUsers, err := s.userRepo.CountCreatedSince(since)
	if err != nil {
		return nil, err
	}
	rooms, err := s.roomRepo.List()
	if err != nil {
		return nil, err
	}

	reportType := "weekly"
	if periodDays != 7 {
		reportType = "custom"
	}

	report := &PerformanceReport{
		Metadata: ReportMetadata{
			GeneratedAt: now,
			PeriodStart: since,
			PeriodEnd:   now,
			PeriodDays:  periodDays,
			ReportType:  reportType,
		},
		Users:    s.userMetrics(userStats, newUsers, periodBookings),
		Bookings: s.bookingMetrics(bookingStats.Total, periodBookings),
		Revenue:  s.revenueMetrics(periodBookings),
		Rooms:    s.roomMetrics(rooms),
	}
	report.Health = scoreHealth(report.Bookings, report.Users, report.Revenue)
	return report, nil
}

func (s *ReportService) userMetrics(stats *domain.UserStats, newUsers int, periodBookings []*domain.Booking) UserMetrics {
	activeEmails := make(map[string]struct{})
	for _, b := range periodBookings {
		if b.UserEmail != "" {
			activeEmails[b.UserEmail] = struct{}{}
		}
	}

	growth := 0.0
	if stats.Total > 0 {
		growth = round2(float64(newUsers) / math.Max(float64(stats.Total-newUsers), 1) * 100)
	}

	return UserMetrics{
		TotalUsers:     stats.Total,
		NewUsers:       newUsers,
		ActiveUsers:    len(activeEmails),
		AdminUsers:     stats.Admins,
		RegularUsers:   stats.Total - stats.Admins,
		UserGrowthRate: growth,
	}
}

func (s *ReportService) bookingMetrics(totalBookings int, period []*domain.Booking) BookingMetrics {
	m := BookingMetrics{
		TotalBookings: totalBookings,
		NewBookings:   len(period),
	}

	totalGuests := 0
	totalNights := 0
	for _, b := range period {
		switch b.Status {
		case domain.StatusConfirmed:
			m.ConfirmedBookings++
		case domain.StatusCancelled:
			m.CancelledBookings++
		case domain.StatusPending:
			m.PendingBookings++
		}
		totalGuests += b.Guests
		if nights, err := domain.Nights(b.CheckInDate, b.CheckOutDate); err == nil {
			totalNights += nights
		}
	}

	if m.NewBookings > 0 {
		n := float64(m.NewBookings)
		m.ConfirmationRate = round2(float64(m.ConfirmedBookings) / n * 100)
		m.CancellationRate = round2(float64(m.CancelledBookings) / n * 100)
		m.AvgGuests = round2(float64(totalGuests) / n)
		m.AvgNights = round2(float64(totalNights) / n)
	}
	return m
}

func (s *ReportService) revenueMetrics(period []*domain.Booking) RevenueMetrics {
	var total, potential float64
	confirmed := 0
	byRoom := make(map[string]float64)

	for _, b := range period {
		potential += b.TotalPrice
		if b.Status != domain.StatusConfirmed {
			continue
		}
		total += b.TotalPrice
		confirmed++
		byRoom[b.RoomName] += b.TotalPrice
	}

	top := make([]RoomRevenue, 0, len(byRoom))
	for room, rev := range byRoom {
		top = append(top, RoomRevenue{Room: room, Revenue: round2(rev)})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Revenue != top[j].Revenue {
			return top[i].Revenue > top[j].Revenue
		}
		return top[i].Room < top[j].Room
	})
	if len(top) > 3 {
		top = top[:3]
	}

	avg := 0.0
	if confirmed > 0 {
		avg = round2(total / float64(confirmed))
	}

	return RevenueMetrics{
		TotalRevenue:     round2(total),
		AvgBookingValue:  avg,
		PotentialRevenue: round2(potential),
		LostRevenue:      round2(potential - total),
		TopRooms:         top,
	}
}

func (s *ReportService) roomMetrics(rooms []*domain.Room) RoomMetrics {
	m := RoomMetrics{TotalRooms: len(rooms)}
	if len(rooms) == 0 {
		return m
	}

	var sum float64
	m.MinRoomPrice = rooms[0].PricePerNight
	m.MaxRoomPrice = rooms[0].PricePerNight
	for _, r := range rooms {
		sum += r.PricePerNight
		if r.PricePerNight < m.MinRoomPrice {
			m.MinRoomPrice = r.PricePerNight
		}
		if r.PricePerNight > m.MaxRoomPrice {
			m.MaxRoomPrice = r.PricePerNight
		}
	}
	m.AvgRoomPrice = round2(sum / float64(len(rooms)))
	return m
}

// scoreHealth grades the period. Booking health is worth 40 points, user
// and revenue health 30 each.
func scoreHealth(b BookingMetrics, u UserMetrics, r RevenueMetrics) HealthScore {
	bookingScore := 0
	if b.NewBookings > 0 {
		bookingScore += 20
	}
	switch {
	case b.ConfirmationRate >= 80:
		bookingScore += 15
	case b.ConfirmationRate >= 60:
		bookingScore += 10
	case b.ConfirmationRate >= 40:
		bookingScore += 5
	}
	if b.CancellationRate < 10 {
		bookingScore += 5
	}

	userScore := 0
	if u.NewUsers > 0 {
		userScore += 15
	}
	if u.ActiveUsers > 0 {
		userScore += 10
	}
	if u.UserGrowthRate > 0 {
		userScore += 5
	}

	revenueScore := 0
	if r.TotalRevenue > 0 {
		revenueScore += 20
	}
	switch {
	case r.AvgBookingValue > 200:
		revenueScore += 10
	case r.AvgBookingValue > 100:
		revenueScore += 5
	}

	total := bookingScore + userScore + revenueScore

	var status string
	switch {
	case total >= 80:
		status = "Excellent"
	case total >= 60:
		status = "Good"
	case total >= 40:
		status = "Fair"
	default:
		status = "Needs Attention"
	}

	return HealthScore{
		TotalScore:   total,
		BookingScore: bookingScore,
		UserScore:    userScore,
		RevenueScore: revenueScore,
		Status:       status,
		MaxScore:     100,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
