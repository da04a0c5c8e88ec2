package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
	"github.com/neon-lab-dev/medhrplus-server/internal/metrics"
)

const (
	mailOTP                = "otp"
	mailWelcome            = "welcome"
	mailResetPassword      = "reset_password"
	mailApplicationSent    = "application_sent"
	mailNewApplicant       = "new_applicant"
	mailApplicationUpdate  = "application_update"
	mailCourseEnrolled     = "course_enrolled"
	mailCourseNewApplicant = "course_new_applicant"
	mailContactAdmin       = "contact_admin"
	mailContactEmployee    = "contact_employee"
)

const mailLayout = `{{define "header"}}<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
<div style="background: #0b5cab; color: #fff; padding: 16px; text-align: center;"><h2>{{.App}}</h2></div>
<div style="padding: 20px; background: #f9f9f9;">{{end}}
{{define "footer"}}</div>
<div style="text-align: center; padding: 16px; color: #888; font-size: 12px;">This email was sent by {{.App}}.</div>
</div>
</body>
</html>{{end}}

{{define "otp"}}{{template "header" .}}
<p>Hi {{.Name}},</p>
<p>Your verification code is <strong style="font-size: 20px;">{{.OTP}}</strong>.</p>
<p>It expires in {{.Minutes}} minutes. If you did not sign up, ignore this email.</p>
{{template "footer" .}}{{end}}

{{define "welcome"}}{{template "header" .}}
<p>Hi {{.Name}},</p>
<p>Your account is verified. Welcome to {{.App}}!</p>
{{template "footer" .}}{{end}}

{{define "reset_password"}}{{template "header" .}}
<p>Hi {{.Name}},</p>
<p>Use the link below to reset your password. It is valid for {{.Minutes}} minutes.</p>
<p><a href="{{.URL}}">{{.URL}}</a></p>
<p>If you did not request this, ignore this email.</p>
{{template "footer" .}}{{end}}

{{define "application_sent"}}{{template "header" .}}
<p>Hi {{.Name}},</p>
<p>Your application for <strong>{{.Title}}</strong>{{if .Company}} at {{.Company}}{{end}} has been submitted.</p>
{{template "footer" .}}{{end}}

{{define "new_applicant"}}{{template "header" .}}
<p>Hi {{.Name}},</p>
<p><strong>{{.Applicant}}</strong> ({{.ApplicantEmail}}) applied for <strong>{{.Title}}</strong>.</p>
{{template "footer" .}}{{end}}

{{define "application_update"}}{{template "header" .}}
<p>Hi {{.Name}},</p>
<p>The status of your application for <strong>{{.Title}}</strong> is now <strong>{{.Status}}</strong>.</p>
{{template "footer" .}}{{end}}

{{define "course_enrolled"}}{{template "header" .}}
<p>Hi {{.Name}},</p>
<p>You have applied for the course <strong>{{.Title}}</strong>.</p>
{{template "footer" .}}{{end}}

{{define "course_new_applicant"}}{{template "header" .}}
<p>Hi {{.Name}},</p>
<p><strong>{{.Applicant}}</strong> ({{.ApplicantEmail}}) applied for the course <strong>{{.Title}}</strong>.</p>
{{template "footer" .}}{{end}}

{{define "contact_admin"}}{{template "header" .}}
<p><strong>From:</strong> {{.Name}} ({{.Email}}{{if .Phone}}, {{.Phone}}{{end}})</p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<div style="background: #fff; padding: 12px; border-left: 4px solid #0b5cab;">{{.Message}}</div>
{{template "footer" .}}{{end}}

{{define "contact_employee"}}{{template "header" .}}
<p>Hi {{.Name}},</p>
<p><strong>{{.From}}</strong>{{if .Company}} from {{.Company}}{{end}} sent you a message:</p>
<div style="background: #fff; padding: 12px; border-left: 4px solid #0b5cab;">{{.Message}}</div>
<p>Reply to {{.FromEmail}}.</p>
{{template "footer" .}}{{end}}
`

var mailTemplates = template.Must(template.New("mail").Parse(mailLayout))

// mailData is the union of everything the templates read.
type mailData struct {
	App            string
	Name           string
	OTP            string
	Minutes        int
	URL            string
	Title          string
	Company        string
	Status         string
	Applicant      string
	ApplicantEmail string
	Email          string
	Phone          string
	Subject        string
	Message        string
	From           string
	FromEmail      string
}

func renderMail(name, to, subject string, data mailData) (ports.Mail, error) {
	var body bytes.Buffer
	if err := mailTemplates.ExecuteTemplate(&body, name, data); err != nil {
		return ports.Mail{}, fmt.Errorf("render %s email: %w", name, err)
	}
	return ports.Mail{Template: name, To: to, Subject: subject, Body: body.String()}, nil
}

// sendMail delivers m synchronously and records the outcome.
func sendMail(ctx context.Context, mailer ports.Mailer, m ports.Mail) error {
	if err := mailer.Send(ctx, m); err != nil {
		metrics.EmailsTotal.WithLabelValues(m.Template, "failed").Inc()
		return err
	}
	metrics.EmailsTotal.WithLabelValues(m.Template, "sent").Inc()
	return nil
}
