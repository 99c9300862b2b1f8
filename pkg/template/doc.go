// Package template holds the notification template catalog and the
// placeholder renderer.
//
// Templates declare their content with `{var}` placeholders and a list of
// required variable names. Rendering is pure substitution: there is no
// template language, no control flow, no escaping ambiguity. A missing
// variable leaves its placeholder literal and is reported as a warning so a
// typo in a caller never blocks delivery.
//
// Templates may carry localized variants keyed by BCP 47 language tags; the
// renderer matches the recipient's preferred language against them and
// falls back to the base content.
package template
