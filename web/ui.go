package web

import (
	_ "embed"

	"github.com/rohanthewiz/element"
	"github.com/rohanthewiz/rweb"
)

//go:embed assets/js/ui.js
var uiJS string

//go:embed assets/css/ui.css
var uiCSS string

// UIHandler serves the dashboard using element package
func UIHandler(c rweb.Context) error {
	return c.WriteHTML(generateDashboard())
}

func generateDashboard() string {
	b := element.NewBuilder()

	b.Html().R(
		b.Head().R(
			b.Title().T("Repomuse - Local Project Discovery"),
			b.Meta("charset", "UTF-8"),
			b.Meta("name", "viewport", "content", "width=device-width, initial-scale=1.0"),
			b.Style().T(uiCSS),
		),
		b.Body().R(
			b.Div("id", "app").R(
				// Header
				b.Header().R(
					b.Div("class", "header-content").R(
						b.H1().T("Repomuse"),
						b.Div("class", "header-right").R(
							b.Button("id", "theme-btn", "class", "btn-secondary").T("Theme"),
							b.Button("id", "settings-btn", "class", "btn-secondary").T("Settings"),
						),
					),
				),
				// Main content area
				b.Main().R(
					// Sidebar: root folder and discovered projects
					b.Aside("id", "sidebar").R(
						b.Div("class", "sidebar-header").R(
							b.Input("type", "text", "id", "root-input", "placeholder", "Projects root, e.g. /home/me/code"),
							b.Button("id", "scan-btn", "class", "btn-primary").T("Scan"),
						),
						b.Div("id", "project-list", "class", "project-list").R(),
					),
					// Detail area for the selected project
					b.Section("id", "detail-area").R(
						b.Div("id", "project-header").R(
							b.H2("id", "project-name").T("Pick a project"),
							b.Div("class", "project-actions").R(
								b.Button("id", "analyze-btn", "class", "btn-primary").T("Analyze"),
								b.Button("id", "reanalyze-btn", "class", "btn-secondary").T("Re-analyze"),
								b.Button("id", "favorite-btn", "class", "btn-secondary").T("Favorite"),
								b.Button("id", "count-btn", "class", "btn-secondary").T("Exact count"),
							),
						),
						b.Div("id", "panels").R(
							b.Div("class", "panel").R(
								b.H3().T("Metrics"),
								b.Div("id", "metrics").R(),
							),
							b.Div("class", "panel").R(
								b.H3().T("Technologies"),
								b.Div("id", "technologies").R(),
							),
							b.Div("class", "panel").R(
								b.H3().T("Insights"),
								b.Div("id", "insights").R(),
							),
							b.Div("class", "panel").R(
								b.H3().T("Recent commits"),
								b.Div("id", "git-log").R(),
							),
							b.Div("class", "panel").R(
								b.Div("class", "panel-header").R(
									b.H3().T("Ideas"),
									b.Input("type", "text", "id", "focus-input", "placeholder", "Focus area (optional)"),
									b.Button("id", "ideas-btn", "class", "btn-primary").T("Generate"),
								),
								b.Div("id", "ideas").R(),
							),
							b.Div("class", "panel").R(
								b.Div("class", "panel-header").R(
									b.H3().T("Summary"),
									b.Button("id", "summary-btn", "class", "btn-primary").T("Generate"),
								),
								b.Div("id", "summary").R(),
							),
							b.Div("class", "panel").R(
								b.H3().T("Tasks"),
								b.Div("class", "task-input").R(
									b.Input("type", "text", "id", "task-input", "placeholder", "New task"),
									b.Button("id", "add-task-btn", "class", "btn-primary").T("Add"),
								),
								b.Div("id", "task-list").R(),
							),
						),
					),
				),
				// Settings dialog
				b.Div("id", "settings-modal", "class", "modal hidden").R(
					b.Div("class", "modal-content").R(
						b.H3().T("AI endpoint"),
						b.Label("for", "api-url-input").T("API URL"),
						b.Input("type", "text", "id", "api-url-input"),
						b.Label("for", "model-select").T("Model"),
						b.Select("id", "model-select").R(),
						b.Label("for", "api-key-input").T("API key (optional)"),
						b.Input("type", "password", "id", "api-key-input"),
						b.Div("class", "modal-actions").R(
							b.Button("id", "save-settings-btn", "class", "btn-primary").T("Save"),
							b.Button("id", "close-settings-btn", "class", "btn-secondary").T("Close"),
						),
					),
				),
			),
			// Application JavaScript
			b.Script().T(uiJS),
		),
	)

	return b.String()
}
