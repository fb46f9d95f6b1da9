package mailer

import "html/template"

var orderAlertTmpl = template.Must(template.New("orderAlert").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1a202c;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1>New Order Received</h1>
    <p><strong>Order ID:</strong> #{{.ID}}</p>
    <p><strong>Date:</strong> {{.CreatedAt.Format "02 Jan 2006 15:04"}}</p>

    <h3>Customer Information</h3>
    <p><strong>Name:</strong> {{.CustomerInfo.Name}}</p>
    <p><strong>Email:</strong> {{.CustomerInfo.Email}}</p>
    {{if .CustomerInfo.Phone}}<p><strong>Phone:</strong> {{.CustomerInfo.Phone}}</p>{{end}}

    <h3>Products Ordered</h3>
    <table style="width: 100%; border-collapse: collapse;">
      <thead>
        <tr><th>Product</th><th>Price</th><th>Quantity</th></tr>
      </thead>
      <tbody>
        {{range .Items}}
        <tr>
          <td style="padding: 8px; border: 1px solid #e2e8f0;">{{.Title}}</td>
          <td style="padding: 8px; border: 1px solid #e2e8f0;">₹{{printf "%.2f" .Price}}</td>
          <td style="padding: 8px; border: 1px solid #e2e8f0;">{{.Quantity}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>

    <p><strong>Total Amount: ₹{{printf "%.2f" .TotalAmount}}</strong></p>
    {{if .Notes}}<h3>Customer Notes</h3><p>{{.Notes}}</p>{{end}}
    <p style="color: #718096;">CodeKart - Premium Coding Projects</p>
  </div>
</body>
</html>`))

var orderConfirmationTmpl = template.Must(template.New("orderConfirmation").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1a202c;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1>Order Confirmed</h1>
    <p>Hi {{.CustomerInfo.Name}},</p>
    <p>We've received your order and will process it shortly.</p>
    <p><strong>Order ID:</strong> #{{.ID}}</p>
    <p><strong>Total Amount:</strong> ₹{{printf "%.2f" .TotalAmount}}</p>
    <p><strong>Status:</strong> {{.Status}}</p>
    <p style="color: #718096;">You'll receive another email with your download link once your order is processed.</p>
    <p style="color: #718096;">CodeKart - Premium Coding Projects</p>
  </div>
</body>
</html>`))

var paymentReceiptTmpl = template.Must(template.New("paymentReceipt").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1a202c;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1>Payment Received</h1>
    <p>Hi {{.CustomerInfo.Name}},</p>
    <p>We've received your payment. Thank you!</p>
    <p><strong>Order ID:</strong> #{{.ID}}</p>
    <p><strong>Amount Paid:</strong> ₹{{printf "%.2f" .TotalAmount}}</p>
    <p><strong>Payment Status:</strong> Paid</p>
    <p style="color: #718096;">Your order is now being processed. You'll receive your download link soon.</p>
    <p style="color: #718096;">CodeKart - Premium Coding Projects</p>
  </div>
</body>
</html>`))
