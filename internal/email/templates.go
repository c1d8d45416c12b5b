package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// baseTemplate wraps every email body in shared styling.
const baseTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
            background-color: #faf7f2;
        }
        .container {
            background-color: white;
            padding: 30px;
            border-radius: 8px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.08);
        }
        .header {
            text-align: center;
            border-bottom: 3px solid #d4a574;
            padding-bottom: 20px;
            margin-bottom: 30px;
        }
        .header h1 {
            color: #b8860b;
            margin: 0;
            font-size: 26px;
        }
        .detail-box {
            background-color: #f9f6f1;
            padding: 15px;
            border-radius: 5px;
            margin-bottom: 25px;
        }
        .button {
            display: inline-block;
            padding: 12px 24px;
            background-color: #b8860b;
            color: white !important;
            text-decoration: none;
            border-radius: 5px;
        }
        .footer {
            text-align: center;
            margin-top: 30px;
            font-size: 13px;
            color: #999;
        }
        img.preview {
            max-width: 100%;
            border-radius: 5px;
        }
    </style>
</head>
<body>
    <div class="container">
        {{.Content}}
        <div class="footer">
            <p>PawPop — Mona Lisa style pet portraits</p>
        </div>
    </div>
</body>
</html>`

const orderConfirmationTemplate = `
<div class="header"><h1>Order Confirmed!</h1></div>
<p>Hi {{.CustomerName}},</p>
<p>Thank you for your order{{if .PetName}} — {{.PetName}}'s masterpiece is on its way{{end}}!</p>
<div class="detail-box">
    <p><strong>Order Number:</strong> {{.OrderNumber}}</p>
    <p><strong>Product:</strong> {{.ProductType}}{{if .ProductSize}} ({{.ProductSize}}){{end}}</p>
    <p><strong>Total:</strong> {{formatCents .PriceCents}}</p>
</div>
<p>We'll email you again when your order ships.</p>`

const adminReviewNotificationTemplate = `
<div class="header"><h1>Review Needed</h1></div>
<p>A new <strong>{{.ReviewType}}</strong> review is waiting.</p>
<div class="detail-box">
    <p><strong>Customer:</strong> {{.CustomerName}}</p>
    {{if .PetName}}<p><strong>Pet:</strong> {{.PetName}}</p>{{end}}
    <p><strong>Review ID:</strong> {{.ReviewID}}</p>
</div>
<p><img class="preview" src="{{.ImageURL}}" alt="artwork under review"></p>
<p><a class="button" href="{{.ReviewURL}}">Open Review</a></p>`

const masterpieceReadyTemplate = `
<div class="header"><h1>Your Masterpiece Is Ready!</h1></div>
<p>Hi {{.CustomerName}},</p>
<p>{{if .PetName}}{{.PetName}}'s{{else}}Your{{end}} Mona Lisa style portrait is finished.</p>
{{if .PreviewURL}}<p><img class="preview" src="{{.PreviewURL}}" alt="your artwork"></p>{{end}}
<p><a class="button" href="{{.ArtworkURL}}">View Your Artwork</a></p>`

const systemAlertTemplate = `
<div class="header"><h1>System Alert</h1></div>
<div class="detail-box">
    <p><strong>{{.Subject}}</strong></p>
    <p>{{.Message}}</p>
</div>`

var templateFuncs = template.FuncMap{
	"formatCents": func(cents int64) string {
		return fmt.Sprintf("$%.2f", float64(cents)/100)
	},
}

var templates = map[string]*template.Template{}

func init() {
	for name, body := range map[string]string{
		"order_confirmation":        orderConfirmationTemplate,
		"admin_review_notification": adminReviewNotificationTemplate,
		"masterpiece_ready":         masterpieceReadyTemplate,
		"system_alert":              systemAlertTemplate,
	} {
		templates[name] = template.Must(template.New(name).Funcs(templateFuncs).Parse(body))
	}
}

func renderTemplate(name string, data any) (string, error) {
	tmpl, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("unknown email template: %s", name)
	}

	var content bytes.Buffer
	if err := tmpl.Execute(&content, data); err != nil {
		return "", fmt.Errorf("failed to render email template %s: %w", name, err)
	}

	base := template.Must(template.New("base").Parse(baseTemplate))
	var full bytes.Buffer
	err := base.Execute(&full, struct{ Content template.HTML }{template.HTML(content.String())})
	if err != nil {
		return "", fmt.Errorf("failed to render base template: %w", err)
	}
	return full.String(), nil
}
