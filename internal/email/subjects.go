package email

const subjectAppointmentReminderFmt = "Rappel : rendez-vous avec %s"
