package report

import (
	"bytes"
	"fmt"
	"html/template"
)

// HTMLWriter renders a treatment plan as a standalone print document.
// The page carries its own styles so it can be opened and printed
// directly by a browser.
type HTMLWriter struct {
	tmpl *template.Template
}

func NewHTMLWriter() (*HTMLWriter, error) {
	tmpl, err := template.New("plan").Funcs(template.FuncMap{
		"hourLabel": HourLabel,
		"hourList":  HourList,
	}).Parse(planTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse plan template: %w", err)
	}
	return &HTMLWriter{tmpl: tmpl}, nil
}

func (w *HTMLWriter) WritePlan(plan *Plan) ([]byte, error) {
	data := struct {
		*Plan
		Matrix   Matrix
		Warnings []string
		Name     string
		Cedula   string
		Age      string
		Allergy  string
		Date     string
	}{
		Plan:     plan,
		Matrix:   plan.BuildMatrix(),
		Warnings: Warnings,
		Name:     "No especificado",
		Cedula:   "N/A",
		Age:      "N/A",
		Allergy:  "No reportadas",
		Date:     plan.GeneratedAt.Format("02/01/2006 15:04"),
	}
	if p := plan.Patient; p != nil {
		if p.FullName != "" {
			data.Name = p.FullName
		}
		if p.Cedula != "" {
			data.Cedula = p.Cedula
		}
		if a := p.Age(plan.GeneratedAt); a >= 0 {
			data.Age = fmt.Sprintf("%d años", a)
		}
		if p.MedicalConditions != "" {
			data.Allergy = p.MedicalConditions
		}
	}

	var buf bytes.Buffer
	if err := w.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render plan: %w", err)
	}
	return buf.Bytes(), nil
}

const planTemplate = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>Plan de Tratamiento - {{.Name}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #1a1a1a; margin: 24px; }
  h1 { color: #0C3A6F; margin-bottom: 0; }
  .subtitle { color: #646464; border-bottom: 2px solid #0C3A6F; padding-bottom: 8px; }
  h2 { color: #0C3A6F; font-size: 14px; margin-top: 24px; }
  table { border-collapse: collapse; width: 100%; font-size: 11px; }
  th, td { border: 1px solid #999; padding: 4px 6px; text-align: left; }
  th { background: #0C3A6F; color: #fff; }
  td.mark { text-align: center; }
  .label { font-weight: bold; width: 220px; display: inline-block; }
  .warnings li { margin-bottom: 4px; font-size: 12px; }
  .footer { margin-top: 48px; color: #646464; font-size: 11px; }
  .signature { border-top: 1px solid #1a1a1a; width: 220px; padding-top: 4px; margin-bottom: 16px; }
  .empty { color: #969696; }
  @media print { body { margin: 10mm; } }
</style>
</head>
<body>
<h1>{{.CenterName}}</h1>
<p class="subtitle">Servicio de Farmacia</p>

<h2>INFORMACIÓN DEL PACIENTE</h2>
<p><span class="label">Nombre:</span>{{.Name}}</p>
<p><span class="label">Cédula:</span>{{.Cedula}}</p>
<p><span class="label">Edad:</span>{{.Age}}</p>
<p><span class="label">Alergias/Contraindicaciones:</span>{{.Allergy}}</p>

<h2>PLANNING VISUAL - MATRIZ HORARIA</h2>
{{if .Rows}}
<table>
  <tr>{{range .Matrix.Header}}<th>{{.}}</th>{{end}}</tr>
  {{range .Matrix.Rows}}
  <tr>
    <td>{{.Name}}</td>
    {{range .Marks}}<td class="mark">{{if .}}&#10003;{{end}}</td>{{end}}
  </tr>
  {{end}}
</table>
{{else}}
<p class="empty">No hay medicamentos asignados en el calendario.</p>
{{end}}

<h2>PAUTA DE ADMINISTRACIÓN DE MEDICAMENTOS</h2>
<table>
  <tr><th>Medicamento</th><th>Principio Activo</th><th>Horarios</th><th>Instrucciones</th></tr>
  {{range .Rows}}
  <tr>
    <td>{{.Name}}</td>
    <td>{{.ActivePrinciples}}</td>
    <td>{{hourList .Hours}}</td>
    <td>{{.Instructions}}</td>
  </tr>
  {{end}}
</table>

<h2>ADVERTENCIAS IMPORTANTES</h2>
<ul class="warnings">
  {{range .Warnings}}<li>{{.}}</li>{{end}}
</ul>

<div class="footer">
  <div class="signature">Firma del Farmacéutico</div>
  <div>Generado el: {{.Date}}</div>
</div>
<script>window.addEventListener("load", function () { window.print(); });</script>
</body>
</html>
`
