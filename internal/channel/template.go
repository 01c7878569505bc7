package channel

import (
	"bytes"
	"html/template"
)

// SubjectPrefix is prepended to every outgoing reminder email subject.
const SubjectPrefix = "Renewd - "

// emailTmpl is the HTML wrapper applied to every outgoing reminder email.
// {{.Subject}} and {{.Body}} are auto-escaped by html/template.
var emailTmpl = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1.0">
  <title>{{.Subject}}</title>
</head>
<body style="margin:0;padding:0;background-color:#f4f4f5;
     font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,Arial,sans-serif;">
  <table width="100%" cellpadding="0" cellspacing="0" role="presentation"
         style="background-color:#f4f4f5;padding:40px 16px;">
    <tr>
      <td align="center">
        <table width="600" cellpadding="0" cellspacing="0" role="presentation"
               style="max-width:600px;width:100%;">
          <tr>
            <td style="background-color:#0f172a;padding:24px 40px;border-radius:12px 12px 0 0;">
              <span style="font-size:20px;font-weight:700;color:#ffffff;letter-spacing:-0.3px;">Renewd</span>
              <span style="display:block;font-size:11px;color:#94a3b8;margin-top:2px;letter-spacing:0.3px;">
                Subscription renewal reminder
              </span>
            </td>
          </tr>
          <tr>
            <td style="background-color:#1e293b;padding:16px 40px;border-left:3px solid #38bdf8;">
              <p style="margin:0;font-size:15px;font-weight:600;color:#e2e8f0;">{{.Subject}}</p>
            </td>
          </tr>
          <tr>
            <td style="background-color:#ffffff;padding:36px 40px;border-radius:0 0 12px 12px;">
              <div style="font-size:14px;line-height:1.7;color:#374151;
                          white-space:pre-wrap;word-break:break-word;">{{.Body}}</div>
            </td>
          </tr>
          <tr>
            <td style="padding:20px 40px;" align="center">
              <p style="margin:0;font-size:12px;color:#9ca3af;">
                You are receiving this because renewal reminders are enabled for your account.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`))

// buildEmailHTML renders the HTML email for the given subject and body.
func buildEmailHTML(subject, body string) (string, error) {
	var buf bytes.Buffer
	err := emailTmpl.Execute(&buf, struct{ Subject, Body string }{Subject: subject, Body: body})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
