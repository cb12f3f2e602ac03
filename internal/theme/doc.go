// Package theme loads foreign themes: their default options, their template
// search layers and the static assets they publish.
//
// Built-in themes live under internal/theme/themes and register themselves from
// init(); import them for side effects to make them available through Get.
package theme
