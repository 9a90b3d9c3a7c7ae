package observability

const (
	MUsecaseRequests     MetricKey = "usecase_requests_total"
	MUsecaseDuration     MetricKey = "usecase_duration_seconds"
	MHTTPRequests        MetricKey = "http_requests_total"
	MHTTPRequestDuration MetricKey = "http_request_duration_seconds"
	MEventHandlerFailure MetricKey = "event_handler_failures_total"
	MSalesCompleted      MetricKey = "sales_completed_total"
	MSalesAmount         MetricKey = "sales_amount_total"
)
