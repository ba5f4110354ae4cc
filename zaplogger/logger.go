// Package zaplogger adapts a *zap.Logger to nodestore.Logger.
//
// Grounded on agilira-balios's ambient logging convention (a Logger
// interface threaded through every component's constructor); zap is the
// logging library other retrieved repos reach for, so this adapter gives
// nodestore a structured, leveled, allocation-conscious Logger without
// inventing a new logging facade.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package zaplogger

import (
	"go.uber.org/zap"
)

// Logger adapts *zap.Logger to nodestore.Logger's four-level interface.
type Logger struct {
	z *zap.Logger
}

// New wraps z. A nil z falls back to zap.NewNop().
func New(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{z: z}
}

func (l *Logger) Debug(msg string, keyvals ...interface{}) {
	l.z.Sugar().Debugw(msg, keyvals...)
}

func (l *Logger) Info(msg string, keyvals ...interface{}) {
	l.z.Sugar().Infow(msg, keyvals...)
}

func (l *Logger) Warn(msg string, keyvals ...interface{}) {
	l.z.Sugar().Warnw(msg, keyvals...)
}

func (l *Logger) Error(msg string, keyvals ...interface{}) {
	l.z.Sugar().Errorw(msg, keyvals...)
}
