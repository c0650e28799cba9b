// Package i18n picks the operator's UI language and hands out x/text
// printers backed by the embedded admin catalog.
package i18n
