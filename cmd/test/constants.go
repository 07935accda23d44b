package main

const (
	defaultAPIBase = "http://localhost:3000/api"
	userAgent      = "evoai-smoke-test/1.0"

	maxResponseBodySize = 1 << 20 // 1 MiB
	maxTableErrorLength = 60

	chatRuleWidth = 50
	toolRuleWidth = 30
)
