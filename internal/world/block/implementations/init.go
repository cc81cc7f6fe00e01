// Package implementations содержит реализации поведений блоков.
// Каждый файл регистрирует своё поведение через init(), поэтому
// достаточно импортировать пакет с пустым идентификатором.
package implementations
