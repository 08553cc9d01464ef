package notifications

var commonTemplates = map[string]string{
	`default`: `
{{- with .Report -}}
  {{Title .Action}}: {{len .Succeeded}} Succeeded, {{len .Failed}} Failed
  {{- range .Failed}}
- {{.Label}}: {{.Error}}
  {{- end -}}
{{- end -}}`,

	`porcelain.v1.summary`: `
{{- with .Report -}}
  {{- range .Succeeded}}
    {{- .}}: {{$.Report.Action}} ok{{ println }}
  {{- end -}}
  {{- range .Failed}}
    {{- .Label}}: {{$.Report.Action}} failed: {{.Error}}{{ println }}
  {{- end -}}
{{- end -}}`,

	`json.v1`: `{{ . | ToJSON }}`,
}
