package exports

import (
	"strconv"
	"strings"

	apptdomain "prospectmap_backend/internal/appointments/domain"
	"prospectmap_backend/internal/commerces/domain"
)

var commerceHeader = []string{
	"Nom", "Type", "Adresse", "Téléphone", "Email", "Site web",
	"Note", "Nombre d'avis", "Statut", "Priorité", "Commercial", "Date de création",
}

var appointmentHeader = []string{
	"Date", "Heure", "Durée (min)", "Type", "Statut",
	"Commerce", "Adresse", "Commercial", "Lieu", "Notes",
}

func text(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func number(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func integer(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func fullName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

func commerceRow(c domain.Commerce) []string {
	owner := ""
	if c.Commercial != nil {
		owner = fullName(c.Commercial.FirstName, c.Commercial.LastName)
	}
	return []string{
		c.Name,
		c.TypeOrDefault(),
		text(c.Address),
		text(c.Phone),
		text(c.Email),
		text(c.Website),
		number(c.Rating),
		integer(c.ReviewCount),
		c.Status.Label(),
		c.Priority.Label(),
		owner,
		c.CreatedAt.Format(apptdomain.DateLayout),
	}
}

func appointmentRow(a apptdomain.Appointment) []string {
	var commerceName, address, owner string
	if a.Commerce != nil {
		commerceName, address = a.Commerce.Name, text(a.Commerce.Address)
	}
	if a.Commercial != nil {
		owner = fullName(a.Commercial.FirstName, a.Commercial.LastName)
	}
	return []string{
		a.Date,
		a.Time,
		strconv.Itoa(a.DurationMinutes),
		a.Type.Label(),
		a.Status.Label(),
		commerceName,
		address,
		owner,
		text(a.Location),
		text(a.Notes),
	}
}
