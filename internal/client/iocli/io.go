// Package iocli абстрагирует терминальный ввод-вывод CLI клиента.
package iocli

// IO ввод и вывод команд, подменяется в тестах
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	ReadInput(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
	Write(p []byte) (n int, err error)
}
