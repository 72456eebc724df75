// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях бота.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отправлять пользователю понятные сообщения.
package common

import "errors"

// Ошибки профиля и персонажа
var (
	// ErrProfileNotFound — пользователь ещё не писал боту
	ErrProfileNotFound = errors.New("профиль не найден")
	// ErrInvalidCharacterName — пустое или слишком длинное имя героя
	ErrInvalidCharacterName = errors.New("имя героя должно быть от 1 до 32 символов")
	// ErrUnknownAvatar — такого класса героя нет
	ErrUnknownAvatar = errors.New("неизвестный класс героя")
	// ErrUnknownTheme — такой цветовой темы нет
	ErrUnknownTheme = errors.New("неизвестная тема")
	// ErrUnknownPersonality — такого набора цитат нет
	ErrUnknownPersonality = errors.New("неизвестный характер")
	// ErrInvalidPoints — начисление опыта должно быть положительным
	ErrInvalidPoints = errors.New("количество опыта должно быть положительным")
)

// Ошибки квестов
var (
	// ErrQuestNotFound — квеста с таким номером нет в списке на сегодня
	ErrQuestNotFound = errors.New("квест не найден")
	// ErrInvalidQuestTitle — пустое или слишком длинное название
	ErrInvalidQuestTitle = errors.New("название квеста должно быть от 1 до 100 символов")
	// ErrInvalidQuestGoal — цель должна быть >= 1
	ErrInvalidQuestGoal = errors.New("цель квеста должна быть положительной")
	// ErrUnknownDifficulty — сложность не из easy/medium/hard
	ErrUnknownDifficulty = errors.New("неизвестная сложность квеста")
	// ErrUnknownCategory — категория не из списка
	ErrUnknownCategory = errors.New("неизвестная категория квеста")
)

// Ошибки гидратации
var (
	// ErrInvalidHydrationAmount — объём вне диапазона 0..5 л или не число
	ErrInvalidHydrationAmount = errors.New("объём воды должен быть от 0 до 5 литров")
	// ErrInvalidHydrationGoal — дневная цель вне диапазона 0.5..10 л
	ErrInvalidHydrationGoal = errors.New("дневная цель должна быть от 0.5 до 10 литров")
)
