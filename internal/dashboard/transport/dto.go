package transport

import (
	"prospectmap_backend/internal/analytics"
	appttransport "prospectmap_backend/internal/appointments/transport"
	commercetransport "prospectmap_backend/internal/commerces/transport"
	"prospectmap_backend/internal/dashboard/service"
)

type StatisticsRequest struct {
	CommercialID string `form:"commercialId" validate:"omitempty,uuid"`
}

type DashboardResponse struct {
	Greeting             string                               `json:"greeting"`
	TotalCommerces       int                                  `json:"totalCommerces"`
	AppointmentsThisWeek int                                  `json:"appointmentsThisWeek"`
	ConversionRate       int                                  `json:"conversionRate"`
	ToFollowUp           int                                  `json:"toFollowUp"`
	RecentCommerces      []commercetransport.CommerceResponse `json:"recentCommerces"`
	NextAppointments     []appttransport.AppointmentResponse  `json:"nextAppointments"`
}

type PipelineResponse struct {
	Total          int `json:"total"`
	ToContact      int `json:"aContacter"`
	InProgress     int `json:"enCours"`
	Scheduled      int `json:"rdvPlanifies"`
	Converted      int `json:"convertis"`
	Lost           int `json:"perdus"`
	ConversionRate int `json:"conversionRate"`
	ToFollowUp     int `json:"aRelancer"`
}

type TypeCountResponse struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type StatisticsResponse struct {
	Pipeline PipelineResponse    `json:"pipeline"`
	ByType   []TypeCountResponse `json:"byType"`
}

func ToDashboardResponse(d service.Dashboard) DashboardResponse {
	return DashboardResponse{
		Greeting:             d.Greeting,
		TotalCommerces:       d.TotalCommerces,
		AppointmentsThisWeek: d.AppointmentsThisWeek,
		ConversionRate:       d.ConversionRate,
		ToFollowUp:           d.ToFollowUp,
		RecentCommerces:      commercetransport.ToCommerceList(d.RecentCommerces),
		NextAppointments:     appttransport.ToAppointmentList(d.NextAppointments),
	}
}

func ToStatisticsResponse(s service.Statistics) StatisticsResponse {
	resp := StatisticsResponse{
		Pipeline: toPipelineResponse(s.Pipeline),
		ByType:   make([]TypeCountResponse, 0, len(s.ByType)),
	}
	for _, row := range s.ByType {
		resp.ByType = append(resp.ByType, TypeCountResponse{Type: row.Type, Count: row.Count})
	}
	return resp
}

func toPipelineResponse(p analytics.PipelineStats) PipelineResponse {
	return PipelineResponse{
		Total:          p.Total,
		ToContact:      p.ToContact,
		InProgress:     p.InProgress,
		Scheduled:      p.Scheduled,
		Converted:      p.Converted,
		Lost:           p.Lost,
		ConversionRate: p.ConversionRate,
		ToFollowUp:     p.ToFollowUp,
	}
}
