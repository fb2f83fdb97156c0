//go:build !blitzdebug

package serializer

const verifyStagedDefault = false
