package handlers

import (
	"html/template"
	"strconv"
	"time"
)

var viewFuncs = template.FuncMap{
	"money":  func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
	"number": func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
	"when":   func(t time.Time) string { return t.Local().Format("02/01/2006, 15:04:05") },
}

var scanViews = template.Must(template.New("scan").Funcs(viewFuncs).Parse(`
{{define "verified"}}<div style="font-family: sans-serif; text-align: center; padding: 40px; border: 5px solid #2ecc71; margin: 20px;">
<h1 style="color: #2ecc71;">✅ Product Verified</h1>
<h2>{{.Product.Name}}</h2>
<p><strong>Barcode:</strong> {{.Product.Barcode}}</p>
<p><strong>Weight:</strong> {{number .Product.Weight}}g</p>
<p><strong>MRP:</strong> ₹{{money .Product.MRP}}</p>
<hr>
<h3>Customer Details</h3>
{{with .Customer}}<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Purchase Date:</strong> {{when .PurchaseDate}}</p>
{{else}}<p>No customer is linked to this verification.</p>
{{end}}<hr>
<h2 style="color: #3498db;">Scan Count: {{.Verification.ScanCount}} of {{.Limit}}</h2>
</div>{{end}}

{{define "expired"}}<div style="font-family: sans-serif; text-align: center; padding: 40px;">
<h1 style="color: #e74c3c;">❌ QR Code Expired</h1>
<p>This QR code has reached its maximum scan limit of {{.Limit}}.</p>
<p>Product: {{.Product.Name}}</p>
</div>{{end}}

{{define "failed"}}<div style="font-family: sans-serif; text-align: center; padding: 40px;">
<h1 style="color: #e74c3c;">❌ Product Not Verified</h1>
<p>This item did not pass verification and has no valid QR code.</p>
{{with .Verification.Reason}}<p>{{.}}</p>{{end}}
</div>{{end}}
`))
