package web

import (
	"fmt"
	"html/template"
	"time"

	"github.com/runoshun/tasklist/internal/domain"
)

func newTemplates() *template.Template {
	funcs := template.FuncMap{
		"formatTime":         formatTime,
		"formatOptionalTime": formatOptionalTime,
		"formatRate":         func(rate float64) string { return fmt.Sprintf("%.1f%%", rate) },
		"isFilter":           func(current domain.TaskFilter, name string) bool { return string(current) == name },
	}
	tmpl := template.New("layout").Funcs(funcs)
	template.Must(tmpl.Parse(layoutTemplate))
	template.Must(tmpl.New("index").Parse(indexTemplate))
	template.Must(tmpl.New("error").Parse(errorTemplate))
	return tmpl
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.Format("2006-01-02 15:04")
}

func formatOptionalTime(value *time.Time) string {
	if value == nil {
		return "-"
	}
	return formatTime(*value)
}

const layoutTemplate = `{{define "head"}}<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.}}</title>
  <style>
    body {
      margin: 0 auto;
      max-width: 860px;
      padding: 24px;
      font-family: system-ui, sans-serif;
      color: #222;
      background: #fafafa;
    }
    h1 { font-size: 24px; margin: 0 0 16px 0; }
    .flash { padding: 8px 12px; border-radius: 6px; margin-bottom: 8px; }
    .flash.success { background: #e3f5e1; }
    .flash.error { background: #fbe3e3; }
    .flash.warning { background: #fdf3d8; }
    .flash.info { background: #e1eefb; }
    .stats { display: flex; gap: 16px; margin: 16px 0; }
    .stats div { background: #fff; border: 1px solid #ddd; border-radius: 6px; padding: 8px 12px; }
    .filters a { margin-right: 12px; }
    .filters a.active { font-weight: 600; }
    form.create { display: grid; gap: 8px; margin: 16px 0; }
    table { width: 100%; border-collapse: collapse; background: #fff; }
    th, td { text-align: left; padding: 8px; border-bottom: 1px solid #eee; vertical-align: top; }
    tr.completed .title { text-decoration: line-through; color: #888; }
    td.actions form { display: inline; }
    .description { color: #555; font-size: 14px; white-space: pre-wrap; }
  </style>
</head>
<body>
{{end}}
{{define "foot"}}</body>
</html>
{{end}}`

const indexTemplate = `{{template "head" "Task list"}}
<h1>Task list</h1>
{{range .Flashes}}<div class="flash {{.Category}}">{{.Message}}</div>
{{end}}
<div class="stats">
  <div>Total: {{.Stats.Total}}</div>
  <div>Completed: {{.Stats.Completed}}</div>
  <div>Pending: {{.Stats.Pending}}</div>
  <div>Completion: {{formatRate .Stats.CompletionRate}}</div>
</div>
<form class="create" method="post" action="/task/create">
  <input name="title" placeholder="Title" maxlength="200" required>
  <textarea name="description" placeholder="Description" rows="2"></textarea>
  <button type="submit">Add task</button>
</form>
<div class="filters">
  <a href="/"{{if isFilter .Filter "all"}} class="active"{{end}}>All</a>
  <a href="/?filter=pending"{{if isFilter .Filter "pending"}} class="active"{{end}}>Pending</a>
  <a href="/?filter=completed"{{if isFilter .Filter "completed"}} class="active"{{end}}>Completed</a>
</div>
{{if .Tasks}}
<table>
  <thead><tr><th>#</th><th>Task</th><th>Created</th><th>Completed</th><th></th></tr></thead>
  <tbody>
  {{range .Tasks}}
  <tr class="{{if .Completed}}completed{{else}}pending{{end}}">
    <td>{{.ID}}</td>
    <td><div class="title">{{.Title}}</div>{{if .Description}}<div class="description">{{.Description}}</div>{{end}}</td>
    <td>{{formatTime .CreatedAt}}</td>
    <td>{{formatOptionalTime .CompletedAt}}</td>
    <td class="actions">
      {{if .Completed}}
      <form method="post" action="/task/{{.ID}}/reopen"><button type="submit">Reopen</button></form>
      {{else}}
      <form method="post" action="/task/{{.ID}}/complete"><button type="submit">Complete</button></form>
      {{end}}
      <form method="post" action="/task/{{.ID}}/delete"><button type="submit">Delete</button></form>
    </td>
  </tr>
  {{end}}
  </tbody>
</table>
{{else}}
<p>No tasks.</p>
{{end}}
{{template "foot"}}`

const errorTemplate = `{{template "head" .Title}}
<h1>{{.Title}}</h1>
<p>{{.Message}}</p>
<p><a href="/">Back to the task list</a></p>
{{template "foot"}}`
