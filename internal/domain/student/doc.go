// Package student содержит доменную модель профиля студента SkillPassport.
//
// Это входная точка конвейера аналитики. Пакет определяет:
//
//   - Сущности: Record (снимок профиля) и его секции - TechnicalSkill,
//     Project, Training, Experience, Certificate
//   - Value Objects: SkillLevel, Progress
//   - Интерфейсы репозиториев: Repository, Cache
//
// # Архитектурные принципы
//
// Пакет следует принципам Clean Architecture и DDD:
//
//  1. Нулевые внешние зависимости - только стандартная библиотека Go
//  2. Dependency Inversion - определяет интерфейсы, которые реализуются в infrastructure
//  3. Снимок неизменяем - Record декодируется один раз на границе
//     хранилища и дальше по конвейеру не мутируется
//
// # Правило включённости
//
// Во всех расчётах участвуют только записи с Enabled == true. Отключённая
// запись исключается полностью, а не понижается в весе. Отсутствие флага
// в хранилище трактуется как "включено" и разрешается при декодировании.
package student
