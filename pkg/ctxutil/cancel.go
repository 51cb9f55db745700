/*
 * SPDX-FileCopyrightText: 2019 SAP SE or an SAP affiliate company and Gardener contributors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package ctxutil

import (
	"context"
)

type key string

var cancelkey = key("cancel")

// CancelContext provides a context which can be canceled
// by Cancel without keeping the cancel function.
func CancelContext(ctx context.Context) context.Context {
	return cancelContext(context.WithCancel(ctx))
}

func cancelContext(ctx context.Context, cancel context.CancelFunc) context.Context {
	return context.WithValue(ctx, cancelkey, cancel)
}

// Cancel cancels a context created by this package.
// It is a noop for other contexts.
func Cancel(ctx context.Context) {
	if f, ok := ctx.Value(cancelkey).(context.CancelFunc); ok {
		f()
	}
}
