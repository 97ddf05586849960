package render

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_String(t *testing.T) {
	r := New()

	tests := []struct {
		name        string
		text        string
		data        any
		expected    string
		errContains string
	}{
		{name: "plain", text: "Hello World", expected: "Hello World"},
		{name: "struct data", text: "Hello, {{ .Name }}!", data: struct{ Name string }{"Alice"}, expected: "Hello, Alice!"},
		{name: "helpers", text: `{{ pascalCase .n }} {{ kebabCase "MyApp" }} {{ quote .n }}`, data: map[string]any{"n": "my-app"}, expected: `MyApp my-app "my-app"`},
		{name: "default", text: `{{ default "pnpm" .pm }}`, data: map[string]any{"pm": ""}, expected: "pnpm"},
		{name: "syntax error", text: "{{ .Name }", errContains: "failed to parse template"},
		{name: "exec error", text: "{{ .Missing.Field }}", data: struct{}{}, errContains: "failed to render template"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.String(tt.name, tt.text, tt.data)
			if tt.errContains != "" {
				assert.ErrorContains(t, err, tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRenderer_CachesByName(t *testing.T) {
	r := New()

	first, err := r.String("greeting", "hi {{ . }}", "a")
	require.NoError(t, err)
	second, err := r.String("greeting", "ignored {{ . }}", "b")
	require.NoError(t, err)

	assert.Equal(t, "hi a", first)
	assert.Equal(t, "hi b", second)

	r.ClearCache()
	third, err := r.String("greeting", "bye {{ . }}", "c")
	require.NoError(t, err)
	assert.Equal(t, "bye c", third)
}

func TestRenderer_FS(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/readme.md.tmpl": {Data: []byte("# {{ title .Name }}\n")},
	}
	r := New()

	got, err := r.FS(fsys, "templates/readme.md.tmpl", map[string]string{"Name": "my-app"})
	require.NoError(t, err)
	assert.Equal(t, "# My App\n", got)

	_, err = r.FS(fsys, "templates/missing.tmpl", nil)
	assert.ErrorContains(t, err, "failed to read template")
}

func TestCaseHelpers(t *testing.T) {
	tests := []struct {
		in, pascal, camel, kebab, snake, constant string
	}{
		{"my-app", "MyApp", "myApp", "my-app", "my_app", "MY_APP"},
		{"userName", "UserName", "userName", "user-name", "user_name", "USER_NAME"},
		{"HTTPServer", "HttpServer", "httpServer", "http-server", "http_server", "HTTP_SERVER"},
		{"@acme/web ui", "AcmeWebUi", "acmeWebUi", "acme-web-ui", "acme_web_ui", "ACME_WEB_UI"},
		{"", "", "", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.pascal, PascalCase(tt.in))
			assert.Equal(t, tt.camel, CamelCase(tt.in))
			assert.Equal(t, tt.kebab, KebabCase(tt.in))
			assert.Equal(t, tt.snake, SnakeCase(tt.in))
			assert.Equal(t, tt.constant, ConstCase(tt.in))
		})
	}
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "My App", Title("my-app"))
	assert.Equal(t, "  a\n\n  b", Indent(2, "a\n\nb"))

	j, err := JSON([]string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, j)

	d, err := Dict("a", 1, "b", "two")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1, "b": "two"}, d)

	_, err = Dict("a")
	assert.Error(t, err)
	_, err = Dict(1, 2)
	assert.Error(t, err)

	assert.Equal(t, "x", Default("x", nil))
	assert.Equal(t, 0, Default(5, 0))
	assert.Equal(t, "x", Default("x", []string{}))
}
