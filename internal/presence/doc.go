// Package presence — ядро разбора статус-сообщений «Online».
//
// Строки статуса (":d_redskull: :knight: Name, 250") превращаются в Record,
// Reconcile соединяет их с индексом локаций и списком исключений, а Render
// собирает итоговый текст сводки с фиксированными шапкой и подвалом.
//
// Все функции пакета чистые: результат зависит только от входных строк,
// снимка локаций и снимка исключений.
package presence
