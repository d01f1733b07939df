package notifier

import "html/template"

var signingRequestTmpl = template.Must(template.New("signing_request").Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Hi {{.RecipientName}},</h2>
  <p><strong>{{.SenderName}}</strong> has requested your signature on the document
     <strong>{{.DocumentTitle}}</strong>.</p>
  {{if .CustomMessage}}<blockquote style="border-left: 3px solid #059669; padding-left: 12px; color: #555;">{{.CustomMessage}}</blockquote>{{end}}
  <p><a href="{{.SigningLink}}" style="background: #059669; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px;">Review &amp; Sign</a></p>
  <p style="color: #6b7280; font-size: 13px;">This link is personal to you and expires in {{.ExpiresHours}} hours.</p>
  <p style="color: #9ca3af; font-size: 12px;">{{.AppName}} — this is an automated message.</p>
</body>
</html>
`))

var nextSignerTmpl = template.Must(template.New("next_signer").Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Hi {{.RecipientName}},</h2>
  <p>The document <strong>{{.DocumentTitle}}</strong> is now waiting on your signature.</p>
  <p><a href="{{.SigningLink}}" style="background: #059669; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px;">Review &amp; Sign</a></p>
  <p style="color: #6b7280; font-size: 13px;">This link is personal to you and expires in {{.ExpiresHours}} hours.</p>
  <p style="color: #9ca3af; font-size: 12px;">{{.AppName}} — this is an automated message.</p>
</body>
</html>
`))

var ownerSignedTmpl = template.Must(template.New("owner_signed").Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Hi {{.RecipientName}},</h2>
  <p><strong>{{.SenderName}}</strong> has signed <strong>{{.DocumentTitle}}</strong>.</p>
  <p>Track the remaining signers from your dashboard.</p>
  <p style="color: #9ca3af; font-size: 12px;">{{.AppName}} — this is an automated message.</p>
</body>
</html>
`))

var ownerRejectedTmpl = template.Must(template.New("owner_rejected").Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Hi {{.RecipientName}},</h2>
  <p><strong>{{.SenderName}}</strong> has declined to sign <strong>{{.DocumentTitle}}</strong>.</p>
  {{if .Reason}}<p>Reason given:</p>
  <blockquote style="border-left: 3px solid #dc2626; padding-left: 12px; color: #555;">{{.Reason}}</blockquote>{{end}}
  <p style="color: #9ca3af; font-size: 12px;">{{.AppName}} — this is an automated message.</p>
</body>
</html>
`))

var downloadReadyTmpl = template.Must(template.New("download_ready").Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Hi {{.RecipientName}},</h2>
  <p><strong>{{.DocumentTitle}}</strong> has been signed by all parties.</p>
  <p><a href="{{.DownloadLink}}" style="background: #059669; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px;">Download your copy</a></p>
  <p style="color: #6b7280; font-size: 13px;">This download link uses your personal signing token and expires {{.ExpiresHours}} hours after it was issued.</p>
  <p style="color: #9ca3af; font-size: 12px;">{{.AppName}} — this is an automated message.</p>
</body>
</html>
`))
