package services

import "github.com/prometheus/client_golang/prometheus"

var (
	confirmationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "merendar_attendance_answers_total",
		Help: "Attendance answers applied, by meal type and answer.",
	}, []string{"meal_type", "attend"})

	windowRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "merendar_window_rejected_total",
		Help: "Attendance answers rejected by the meal window policy.",
	}, []string{"meal_type"})

	qrIssuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "merendar_qr_issued_total",
		Help: "QR codes issued for confirmed meal slots.",
	})
)

func init() {
	prometheus.MustRegister(confirmationsTotal, windowRejectedTotal, qrIssuedTotal)
}
