package template_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/notify/pkg/notification"
	"github.com/campuskit/notify/pkg/template"
)

func TestRenderer_Render(t *testing.T) {
	r := template.NewRenderer()

	tpl := &template.Template{
		ID:            "payment_due",
		Category:      notification.CategoryFinancial,
		TitleTemplate: "Payment due",
		BodyTemplate:  "You have a payment of {amount} due on {due_date}.",
		Variables:     []string{"amount", "due_date"},
	}

	t.Run("substitutes all variables", func(t *testing.T) {
		content, missing := r.Render(tpl, map[string]string{
			"amount":   "500",
			"due_date": "2025-01-15",
		}, "")

		assert.Empty(t, missing)
		assert.Equal(t, "Payment due", content.Title)
		assert.Contains(t, content.Body, "500")
		assert.Contains(t, content.Body, "2025-01-15")
	})

	t.Run("missing variable keeps placeholder and warns", func(t *testing.T) {
		content, missing := r.Render(tpl, map[string]string{"amount": "500"}, "")

		assert.Equal(t, []string{"due_date"}, missing)
		assert.Contains(t, content.Body, "{due_date}", "placeholder stays literal")
		assert.Contains(t, content.Body, "500", "present variables still substituted")
	})

	t.Run("repeated placeholders all substituted", func(t *testing.T) {
		repeated := &template.Template{
			TitleTemplate: "{name} and {name}",
			BodyTemplate:  "{name}, {name}, {name}",
		}
		content, missing := r.Render(repeated, map[string]string{"name": "x"}, "")
		assert.Empty(t, missing)
		assert.Equal(t, "x and x", content.Title)
		assert.Equal(t, "x, x, x", content.Body)
	})

	t.Run("extra variables are ignored", func(t *testing.T) {
		content, missing := r.Render(tpl, map[string]string{
			"amount":    "500",
			"due_date":  "2025-01-15",
			"unrelated": "noise",
		}, "")
		assert.Empty(t, missing)
		assert.NotContains(t, content.Body, "noise")
	})
}

func TestRenderer_Localization(t *testing.T) {
	r := template.NewRenderer()

	tpl := &template.Template{
		TitleTemplate: "Welcome to {university_name}",
		BodyTemplate:  "Hello {student_name}",
		Localized: map[string]template.Localization{
			"ar": {
				Title: "مرحباً بك في {university_name}",
				Body:  "مرحباً {student_name}",
			},
		},
	}
	vars := map[string]string{"university_name": "KSU", "student_name": "Sara"}

	t.Run("exact language match", func(t *testing.T) {
		content, _ := r.Render(tpl, vars, "ar")
		assert.Equal(t, "مرحباً بك في KSU", content.Title)
		assert.Equal(t, "مرحباً Sara", content.Body)
	})

	t.Run("regional variant matches base language", func(t *testing.T) {
		content, _ := r.Render(tpl, vars, "ar-SA")
		assert.Equal(t, "مرحباً بك في KSU", content.Title)
	})

	t.Run("unknown language falls back to base", func(t *testing.T) {
		content, _ := r.Render(tpl, vars, "fr")
		assert.Equal(t, "Welcome to KSU", content.Title)
	})

	t.Run("empty language falls back to base", func(t *testing.T) {
		content, _ := r.Render(tpl, vars, "")
		assert.Equal(t, "Welcome to KSU", content.Title)
	})

	t.Run("invalid language tag falls back to base", func(t *testing.T) {
		content, _ := r.Render(tpl, vars, "not a tag!!")
		assert.Equal(t, "Welcome to KSU", content.Title)
	})
}

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	store := template.NewMemoryStorage(template.Defaults()...)

	t.Run("catalog is seeded", func(t *testing.T) {
		tpl, err := store.Get(ctx, "payment_due")
		require.NoError(t, err)
		assert.Equal(t, notification.CategoryFinancial, tpl.Category)
		assert.Contains(t, tpl.DefaultChannels, notification.ChannelSMS)

		all, err := store.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 6)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := store.Get(ctx, "no_such_template")
		assert.ErrorIs(t, err, template.ErrNotFound)
	})

	t.Run("put rejects duplicates", func(t *testing.T) {
		err := store.Put(ctx, template.Template{ID: "payment_due", IsActive: true})
		assert.ErrorIs(t, err, template.ErrAlreadyExists)
	})

	t.Run("put then get", func(t *testing.T) {
		err := store.Put(ctx, template.Template{
			ID:              "exam_reminder",
			Name:            "Exam reminder",
			Category:        notification.CategoryAcademic,
			TitleTemplate:   "Exam for {course_name}",
			BodyTemplate:    "Your {course_name} exam is on {exam_date}.",
			Variables:       []string{"course_name", "exam_date"},
			DefaultChannels: []notification.Channel{notification.ChannelEmail},
			DefaultPriority: notification.PriorityHigh,
			IsActive:        true,
		})
		require.NoError(t, err)

		tpl, err := store.Get(ctx, "exam_reminder")
		require.NoError(t, err)
		assert.Equal(t, "Exam reminder", tpl.Name)
	})

	t.Run("inactive templates are invisible", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, template.Template{ID: "retired", IsActive: false}))
		_, err := store.Get(ctx, "retired")
		assert.ErrorIs(t, err, template.ErrNotFound)
	})
}
