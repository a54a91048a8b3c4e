package get_salon_stats

import "github.com/m04kA/SMC-ScheduleService/internal/domain"

// MasterStatsResponse бронирования мастера по статусам
type MasterStatsResponse struct {
	MasterID   int64  `json:"masterId"`
	MasterName string `json:"masterName"`
	Total      int    `json:"total"`
	Confirmed  int    `json:"confirmed"`
	Visited    int    `json:"visited"`
	NoShow     int    `json:"noShow"`
}

// StatsResponse HTTP response model
type StatsResponse struct {
	SalonID int64                 `json:"salonId"`
	Masters []MasterStatsResponse `json:"masters"`
}

// FromDomain конвертирует статистику в HTTP response
func FromDomain(salonID int64, stats []*domain.MasterBookingStats) *StatsResponse {
	resp := &StatsResponse{
		SalonID: salonID,
		Masters: make([]MasterStatsResponse, 0, len(stats)),
	}
	for _, s := range stats {
		resp.Masters = append(resp.Masters, MasterStatsResponse{
			MasterID:   s.MasterID,
			MasterName: s.MasterName,
			Total:      s.Total,
			Confirmed:  s.Confirmed,
			Visited:    s.Visited,
			NoShow:     s.NoShow,
		})
	}
	return resp
}
