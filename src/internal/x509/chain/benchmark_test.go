// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain_test

import (
	"testing"
	"time"

	x509chain "github.com/H0llyW00dzZ/x509-chain-builder/src/internal/x509/chain"
)

func BenchmarkOrder(b *testing.B) {
	certs := threeLevel(b)

	for b.Loop() {
		manager := x509chain.New(certs[2], certs[0], certs[1])
		manager.Order()
	}
}

func BenchmarkRenderTable(b *testing.B) {
	manager := x509chain.New(threeLevel(b)...)
	status := manager.ValidityStatus(time.Now())

	for b.Loop() {
		_ = manager.RenderTable(status)
	}
}

func BenchmarkToVisualizationJSON(b *testing.B) {
	manager := x509chain.New(threeLevel(b)...)
	status := manager.ValidityStatus(time.Now())

	for b.Loop() {
		if _, err := manager.ToVisualizationJSON(status); err != nil {
			b.Fatalf("ToVisualizationJSON() error = %v", err)
		}
	}
}
