package template

import (
	"github.com/campuskit/notify/pkg/notification"
)

// Defaults returns the built-in university template catalog. Callers pass
// the result to NewMemoryStorage, optionally appending their own templates.
func Defaults() []Template {
	return []Template{
		{
			ID:            "welcome_student",
			Name:          "New student welcome",
			Category:      notification.CategoryAcademic,
			TitleTemplate: "Welcome to {university_name}",
			BodyTemplate:  "Hello {student_name}, welcome to {university_name}. Your student number is {student_id}.",
			Variables:     []string{"university_name", "student_name", "student_id"},
			DefaultChannels: []notification.Channel{
				notification.ChannelEmail, notification.ChannelInApp,
			},
			DefaultPriority: notification.PriorityNormal,
			Localized: map[string]Localization{
				"ar": {
					Title: "مرحباً بك في {university_name}",
					Body:  "مرحباً {student_name}، أهلاً وسهلاً بك في {university_name}. رقمك الجامعي هو: {student_id}",
				},
			},
			IsActive: true,
		},
		{
			ID:            "grade_published",
			Name:          "Grades published",
			Category:      notification.CategoryAcademic,
			TitleTemplate: "Grades published for {course_name}",
			BodyTemplate:  "Your grade for {course_name} has been published. Grade: {grade}",
			Variables:     []string{"course_name", "grade"},
			DefaultChannels: []notification.Channel{
				notification.ChannelEmail, notification.ChannelPush, notification.ChannelInApp,
			},
			DefaultPriority: notification.PriorityNormal,
			Localized: map[string]Localization{
				"ar": {
					Title: "تم نشر درجات مقرر {course_name}",
					Body:  "تم نشر درجاتك في مقرر {course_name}. درجتك: {grade}",
				},
			},
			IsActive: true,
		},
		{
			ID:            "payment_due",
			Name:          "Payment due",
			Category:      notification.CategoryFinancial,
			TitleTemplate: "Payment due",
			BodyTemplate:  "You have a payment of {amount} due on {due_date}.",
			Variables:     []string{"amount", "due_date"},
			DefaultChannels: []notification.Channel{
				notification.ChannelEmail, notification.ChannelSMS, notification.ChannelInApp,
			},
			DefaultPriority: notification.PriorityHigh,
			Localized: map[string]Localization{
				"ar": {
					Title: "استحقاق دفعة مالية",
					Body:  "لديك دفعة مستحقة بقيمة {amount} ريال. تاريخ الاستحقاق: {due_date}",
				},
			},
			IsActive: true,
		},
		{
			ID:            "course_enrollment",
			Name:          "Course enrollment",
			Category:      notification.CategoryAcademic,
			TitleTemplate: "Enrolled in {course_name}",
			BodyTemplate:  "You have been enrolled in {course_name} for the {semester} semester.",
			Variables:     []string{"course_name", "semester"},
			DefaultChannels: []notification.Channel{
				notification.ChannelEmail, notification.ChannelInApp,
			},
			DefaultPriority: notification.PriorityNormal,
			Localized: map[string]Localization{
				"ar": {
					Title: "تم تسجيلك في مقرر {course_name}",
					Body:  "تم تسجيلك بنجاح في مقرر {course_name} للفصل الدراسي {semester}",
				},
			},
			IsActive: true,
		},
		{
			ID:            "security_alert",
			Name:          "Security alert",
			Category:      notification.CategorySecurity,
			TitleTemplate: "Security alert - {alert_type}",
			BodyTemplate:  "Suspicious activity detected on your account: {alert_details}. Please review immediately.",
			Variables:     []string{"alert_type", "alert_details"},
			DefaultChannels: []notification.Channel{
				notification.ChannelEmail, notification.ChannelSMS, notification.ChannelPush,
			},
			DefaultPriority: notification.PriorityUrgent,
			Localized: map[string]Localization{
				"ar": {
					Title: "تنبيه أمني - {alert_type}",
					Body:  "تم اكتشاف نشاط مشبوه في حسابك: {alert_details}. يُرجى المراجعة فوراً",
				},
			},
			IsActive: true,
		},
		{
			ID:            "attendance_alert",
			Name:          "Absence alert",
			Category:      notification.CategoryAcademic,
			TitleTemplate: "Absence recorded - {course_name}",
			BodyTemplate:  "An absence was recorded for you in {course_name}. Total absences: {absence_count}",
			Variables:     []string{"course_name", "absence_count"},
			DefaultChannels: []notification.Channel{
				notification.ChannelEmail, notification.ChannelSMS,
			},
			DefaultPriority: notification.PriorityHigh,
			Localized: map[string]Localization{
				"ar": {
					Title: "تنبيه غياب - {course_name}",
					Body:  "تم تسجيل غيابك في مقرر {course_name}. عدد مرات الغياب: {absence_count}",
				},
			},
			IsActive: true,
		},
	}
}
