package noticeutil

const defaultTerms = `NOTIFICAÇÃO EXTRAJUDICIAL

Pelo presente instrumento, o CREDOR, acima qualificado, vem, por meio desta, NOTIFICAR EXTRAJUDICIALMENTE o DEVEDOR, também qualificado, dos seguintes fatos e fundamentos jurídicos:

1. DO DÉBITO
O DEVEDOR encontra-se em débito com o CREDOR, referente ao não pagamento de valores devidos conforme discriminado acima.

2. DO PRAZO PARA PAGAMENTO
Fica concedido ao DEVEDOR o prazo determinado nesta notificação, contados a partir do recebimento da presente, para que efetue o pagamento integral do débito, sob pena de:
a) Inscrição do nome do devedor nos órgãos de proteção ao crédito (SPC, SERASA);
b) Propositura de ação judicial de cobrança;
c) Incidência de juros, multa e correção monetária conforme legislação vigente.

3. DA FUNDAMENTAÇÃO LEGAL
Esta notificação é realizada com base nos artigos 867 e seguintes do Código Civil Brasileiro e demais legislações aplicáveis.

4. DAS CONSIDERAÇÕES FINAIS
O CREDOR coloca-se à disposição para eventuais esclarecimentos e negociações amigáveis para quitação do débito, podendo ser contatado através dos dados informados acima.

A presente notificação é enviada em cumprimento às formalidades legais, visando a solução amigável do débito antes da adoção de medidas judiciais.`

// DefaultTerms is the boilerplate used when a notice is created without
// custom terms and clauses.
func DefaultTerms() string {
	return defaultTerms
}
