package testutil

// ExampleCustomer returns the reference request body: a month-to-month DSL
// customer with one year of tenure.
func ExampleCustomer() map[string]any {
	return map[string]any{
		"gender":           1,
		"SeniorCitizen":    0,
		"Partner":          1,
		"Dependents":       0,
		"tenure":           12,
		"MultipleLines":    0,
		"InternetService":  1,
		"OnlineSecurity":   0,
		"OnlineBackup":     1,
		"DeviceProtection": 0,
		"TechSupport":      0,
		"Contract":         0,
		"PaperlessBilling": 1,
		"PaymentMethod":    0,
		"MonthlyCharges":   70.35,
		"TotalCharges":     845.5,
	}
}

// ExampleAnswers returns ExampleCustomer as human-readable answers.
func ExampleAnswers() map[string]string {
	return map[string]string{
		"gender":           "Male",
		"SeniorCitizen":    "No",
		"Partner":          "Yes",
		"Dependents":       "No",
		"tenure":           "12",
		"MultipleLines":    "No",
		"InternetService":  "DSL",
		"OnlineSecurity":   "No",
		"OnlineBackup":     "Yes",
		"DeviceProtection": "No",
		"TechSupport":      "No",
		"Contract":         "Month-to-month",
		"PaperlessBilling": "Yes",
		"PaymentMethod":    "Electronic check",
		"MonthlyCharges":   "70.35",
		"TotalCharges":     "845.5",
	}
}
