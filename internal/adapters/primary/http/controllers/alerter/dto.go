package alerter

// GenericAlertPayload алерт в свободной форме от внешних систем (деплой, мониторинг)
type GenericAlertPayload struct {
	Message string `json:"message"`
	Source  string `json:"source"`
}
