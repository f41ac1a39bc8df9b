package notify

import (
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/Priyanshusingh0818/GORUS/internal/models"
)

type itemLine struct {
	Name     string
	Quantity int
	Price    string
	Subtotal string
}

type emailData struct {
	OrderNumber     string
	OrderDate       string
	PaymentMethod   string
	Status          string
	CustomerName    string
	CustomerEmail   string
	Phone           string
	ShippingName    string
	ShippingAddress string
	ShippingPhone   string
	Items           []itemLine
	Total           string
	HasAttachment   bool
}

func newEmailData(order *models.Order, customer *models.User) emailData {
	d := emailData{
		OrderNumber:     order.OrderNumber,
		OrderDate:       order.CreatedAt.In(time.Local).Format("02/01/2006, 3:04:05 pm"),
		PaymentMethod:   strings.ToUpper(string(order.PaymentMethod)),
		Status:          capitalize(string(order.Status)),
		CustomerName:    orNA(""),
		CustomerEmail:   orNA(""),
		Phone:           orNA(order.ShippingPhone),
		ShippingName:    order.ShippingName,
		ShippingAddress: order.ShippingAddress,
		ShippingPhone:   order.ShippingPhone,
		Total:           order.TotalAmount.StringFixed(2),
	}
	if customer != nil {
		d.CustomerName = orNA(customer.DisplayName())
		d.CustomerEmail = orNA(customer.Email)
	}
	for _, it := range order.Items {
		d.Items = append(d.Items, itemLine{
			Name:     it.ProductName,
			Quantity: it.Quantity,
			Price:    it.ProductPrice.String(),
			Subtotal: it.Subtotal.StringFixed(2),
		})
	}
	return d
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

const emailStyle = `
body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
.container { max-width: 600px; margin: 0 auto; padding: 20px; }
.header { background-color: #22c55e; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
.badge { background-color: #fbbf24; color: #78350f; padding: 10px 20px; border-radius: 20px; display: inline-block; font-weight: bold; margin: 10px 0; }
.content { background-color: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
.box { background-color: white; padding: 15px; margin: 15px 0; border-radius: 5px; }
.label { font-weight: bold; color: #374151; }
.total { background-color: #22c55e; color: white; padding: 15px; text-align: center; font-size: 20px; font-weight: bold; border-radius: 5px; margin-top: 15px; }
.warning { background-color: #fef3c7; border-left: 4px solid #fbbf24; padding: 15px; margin: 15px 0; border-radius: 5px; }
.footer { text-align: center; padding: 20px; color: #6b7280; font-size: 12px; }
`

const htmlLayout = `{{define "customer"}}
<div class="box">
  <h2>Customer Information</h2>
  <div><span class="label">Name:</span> {{.CustomerName}}</div>
  <div><span class="label">Email:</span> {{.CustomerEmail}}</div>
  <div><span class="label">Phone:</span> {{.Phone}}</div>
</div>
<div class="box">
  <h2>Shipping Address</h2>
  <div><span class="label">Name:</span> {{.ShippingName}}</div>
  <div><span class="label">Address:</span> {{.ShippingAddress}}</div>
  <div><span class="label">Phone:</span> {{.ShippingPhone}}</div>
</div>
<div class="box">
  <h2>Order Items</h2>
  <ul>{{range .Items}}
    <li>{{.Name}} - {{.Quantity}} &times; &#8377;{{.Price}} = &#8377;{{.Subtotal}}</li>{{end}}
  </ul>
</div>
{{end}}`

var orderCreatedHTML = htmltemplate.Must(htmltemplate.New("order").Parse(htmlLayout + `<!DOCTYPE html>
<html><head><style>` + emailStyle + `</style></head>
<body><div class="container">
<div class="header"><h1>New Order Received</h1></div>
<div class="content">
  <div class="box">
    <h2>Order Details</h2>
    <div><span class="label">Order Number:</span> {{.OrderNumber}}</div>
    <div><span class="label">Order Date:</span> {{.OrderDate}}</div>
    <div><span class="label">Payment Method:</span> {{.PaymentMethod}}</div>
    <div><span class="label">Status:</span> {{.Status}}</div>
  </div>
  {{template "customer" .}}
  <div class="total">Total Amount: &#8377;{{.Total}}</div>
</div>
<div class="footer"><p>This is an automated notification from GORAS Dairy E-commerce System</p></div>
</div></body></html>`))

var upiPaymentHTML = htmltemplate.Must(htmltemplate.New("upi").Parse(htmlLayout + `<!DOCTYPE html>
<html><head><style>` + emailStyle + `</style></head>
<body><div class="container">
<div class="header"><h1>UPI Payment Received</h1>{{if .HasAttachment}}<div class="badge">PAYMENT SCREENSHOT ATTACHED</div>{{end}}</div>
<div class="content">
  <div class="warning"><strong>Action Required:</strong> Customer has uploaded a payment screenshot. Please verify the payment and update the order status accordingly.</div>
  <div class="box">
    <h2>Order Details</h2>
    <div><span class="label">Order Number:</span> {{.OrderNumber}}</div>
    <div><span class="label">Order Date:</span> {{.OrderDate}}</div>
    <div><span class="label">Payment Method:</span> <strong style="color: #22c55e;">UPI</strong></div>
    <div><span class="label">Payment Status:</span> Pending Verification</div>
  </div>
  {{template "customer" .}}
  <div class="total">Amount Paid: &#8377;{{.Total}}</div>
</div>
<div class="footer">{{if .HasAttachment}}<p>Payment screenshot is attached to this email.</p>{{end}}<p>This is an automated notification from GORAS Dairy E-commerce System</p></div>
</div></body></html>`))

const textCustomer = `{{define "customer"}}Customer Information:
- Name: {{.CustomerName}}
- Email: {{.CustomerEmail}}
- Phone: {{.Phone}}

Shipping Address:
- Name: {{.ShippingName}}
- Address: {{.ShippingAddress}}
- Phone: {{.ShippingPhone}}

Order Items:
{{range .Items}}  * {{.Name}} - {{.Quantity}} x ₹{{.Price}} = ₹{{.Subtotal}}
{{end}}{{end}}`

var orderCreatedText = texttemplate.Must(texttemplate.New("order").Parse(textCustomer + `New Order Received - {{.OrderNumber}}

Order Details:
- Order Number: {{.OrderNumber}}
- Order Date: {{.OrderDate}}
- Payment Method: {{.PaymentMethod}}
- Status: {{.Status}}

{{template "customer" .}}
Total Amount: ₹{{.Total}}

---
This is an automated notification from GORAS Dairy E-commerce System
`))

var upiPaymentText = texttemplate.Must(texttemplate.New("upi").Parse(textCustomer + `UPI PAYMENT RECEIVED - Order {{.OrderNumber}}

ACTION REQUIRED: Customer has uploaded a payment screenshot. Please verify and update order status.

Order Details:
- Order Number: {{.OrderNumber}}
- Order Date: {{.OrderDate}}
- Payment Method: UPI
- Payment Status: Pending Verification

{{template "customer" .}}
Amount Paid: ₹{{.Total}}
{{if .HasAttachment}}
Payment screenshot is attached to this email.{{end}}
---
This is an automated notification from GORAS Dairy E-commerce System
`))
