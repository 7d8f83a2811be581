// Package testdoubles contiene dobles en memoria de los puertos de persistencia,
// caché, eventos y PDF para las pruebas de casos de uso y handlers.
//
// Store comparte el estado entre repositorios; TxRunner restaura una copia del
// estado cuando la función de la transacción devuelve error.
package testdoubles
