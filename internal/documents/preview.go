package documents

import (
	"bytes"
	"html/template"
)

// The in-page preview carries exactly the same field content as the PDF;
// only the delivery differs.
var previewTmpl = template.Must(template.New("acta").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>{{.FormTitle}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; max-width: 760px; margin: 2rem auto; }
.header { display: flex; justify-content: space-between; }
.boxes td { border: 1px solid #000; padding: 2px 6px; font-size: 0.75rem; }
.legal { font-size: 0.8rem; text-align: justify; }
.confidential { font-size: 0.7rem; text-align: justify; }
.hardware td { padding: 3px 8px; }
.hardware td:first-child { font-weight: bold; }
.signature { margin-top: 3rem; }
.printdate { text-align: right; font-size: 0.8rem; margin-top: 4rem; }
@media print { body { margin: 0; } }
</style>
</head>
<body>
<div class="header">
  <h2>{{.OrgTitle}}</h2>
  <table class="boxes">
    <tr><td>Region / Dept.</td></tr>
    <tr><td>{{.F.Departamento}}</td></tr>
    <tr><td>{{.DeptBox}}</td></tr>
    <tr><td>Revision Date: {{.RevisionDate}}</td></tr>
  </table>
</div>
<p><strong>FORM</strong> {{.FormCode}}</p>
<h3>{{.FormTitle}}</h3>
<p class="confidential"><strong>CONFIDENTIAL:</strong> {{.Confidential}}</p>
<p class="legal">{{.Acknowledged}}</p>
<h4>Hardware Description:</h4>
<table class="hardware">
  <tr><td>Equipo/Modelo:</td><td>{{.F.Modelo}}</td></tr>
  <tr><td>Serial number:</td><td>{{.F.Serie}}</td></tr>
  <tr><td>Accesorios:</td><td>{{.F.Accesorios}}</td></tr>
  <tr><td>Fixed Asset Tag Number:</td><td>{{.F.AssetTag}}</td></tr>
  <tr><td>Associates Printed Name:</td><td>{{.F.Nombre}}</td></tr>
  <tr><td>Location:</td><td>{{.F.Localidad}}</td></tr>
  <tr><td>Date:</td><td>{{.F.FechaAsignacion}}</td></tr>
</table>
<p class="signature">Signature: ______________________________</p>
<p class="printdate"><strong>Print Date:</strong> {{.F.PrintDate}}</p>
</body>
</html>
`))

type previewData struct {
	F            Fields
	OrgTitle     string
	DeptBox      string
	FormTitle    string
	FormCode     string
	RevisionDate string
	Confidential string
	Acknowledged string
}

func RenderPreview(f Fields) ([]byte, error) {
	var buf bytes.Buffer
	data := previewData{
		F:            f,
		OrgTitle:     orgTitle,
		DeptBox:      deptBox,
		FormTitle:    formTitle,
		FormCode:     formCode,
		RevisionDate: revisionDate,
		// The CONFIDENTIAL prefix is rendered by the template itself.
		Confidential: confidentialText[len("CONFIDENTIAL: "):],
		Acknowledged: acknowledgedText,
	}
	if err := previewTmpl.Execute(&buf, data); err != nil {
		return nil, ErrInternal("preview rendering failed: " + err.Error())
	}
	return buf.Bytes(), nil
}
